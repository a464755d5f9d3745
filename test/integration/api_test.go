package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/best-combination/internal/application"
	"github.com/eugenenazirov/best-combination/internal/config"
)

type combinationResponse struct {
	Items       []int           `json:"items"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	TotalWeight decimal.Decimal `json:"totalWeight"`
	Cached      bool            `json:"cached"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func integrationConfig() config.Config {
	limit := decimal.NewFromInt(100)
	return config.Config{
		Port:                ":0",
		WeightDecimals:      2,
		MaxItems:            15,
		MaxItemWeight:       limit,
		MaxItemPrice:        limit,
		MaxBoxWeight:        limit,
		CacheSize:           32,
		LogLevel:            "info",
		ShutdownGracePeriod: time.Second,
		ReadHeaderTimeout:   time.Second,
		WriteTimeout:        5 * time.Second,
		IdleTimeout:         time.Second,
	}
}

var _ = Describe("best-combination API", func() {
	var server *httptest.Server

	BeforeEach(func() {
		app, err := application.New(integrationConfig(), zaptest.NewLogger(GinkgoT()))
		Expect(err).NotTo(HaveOccurred())

		server = httptest.NewServer(app.Handler())
		DeferCleanup(server.Close)
	})

	post := func(body string) *http.Response {
		resp, err := http.Post(server.URL+"/api/best-combination", "application/json", bytes.NewBufferString(body))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(resp.Body.Close)
		return resp
	}

	decode := func(resp *http.Response, into any) {
		Expect(json.NewDecoder(resp.Body).Decode(into)).To(Succeed())
	}

	It("reports health", func() {
		resp, err := http.Get(server.URL + "/api/health")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("publishes the active constraints", func() {
		resp, err := http.Get(server.URL + "/api/constraints")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var body map[string]any
		decode(resp, &body)
		Expect(body).To(HaveKeyWithValue("weightDecimals", BeNumerically("==", 2)))
		Expect(body).To(HaveKeyWithValue("maxItems", BeNumerically("==", 15)))
	})

	DescribeTable("selects the most valuable combination",
		func(body string, wantIDs []int, wantPrice, wantWeight string) {
			resp := post(body)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var got combinationResponse
			decode(resp, &got)
			Expect(got.Items).To(Equal(wantIDs))
			Expect(got.TotalPrice.Equal(decimal.RequireFromString(wantPrice))).To(BeTrue(), "price %s", got.TotalPrice)
			Expect(got.TotalWeight.Equal(decimal.RequireFromString(wantWeight))).To(BeTrue(), "weight %s", got.TotalWeight)
		},
		Entry("classic instance",
			`{"max_weight": 50, "items": [
				{"Item ID": 1, "Weight": 10, "Price": 6},
				{"Item ID": 2, "Weight": 20, "Price": 10},
				{"Item ID": 3, "Weight": 30, "Price": 12}]}`,
			[]int{2, 3}, "22", "50"),
		Entry("cent-precision weights",
			`{"max_weight": 1.00, "items": [
				{"Item ID": 1, "Weight": 0.55, "Price": 3.00},
				{"Item ID": 2, "Weight": 0.50, "Price": 2.00},
				{"Item ID": 3, "Weight": 0.45, "Price": 2.00}]}`,
			[]int{1, 3}, "5.00", "1.00"),
		Entry("non-contiguous ids are returned ascending",
			`{"max_weight": 8, "items": [
				{"Item ID": 99, "Weight": 3, "Price": 4.10},
				{"Item ID": 12, "Weight": 2, "Price": 2.25},
				{"Item ID": 40, "Weight": 3, "Price": 3.50},
				{"Item ID": 5, "Weight": 6, "Price": 5.00}]}`,
			[]int{12, 40, 99}, "9.85", "8"),
		Entry("nothing fits",
			`{"max_weight": 1, "items": [{"Item ID": 1, "Weight": 2, "Price": 10}]}`,
			[]int{}, "0", "0"),
		Entry("equal prices prefer the lighter combination",
			`{"max_weight": 40, "items": [
				{"Item ID": 1, "Weight": 30, "Price": 50},
				{"Item ID": 2, "Weight": 20, "Price": 50}]}`,
			[]int{2}, "50", "20"),
	)

	It("serves repeated requests from the cache", func() {
		body := `{"max_weight": 50, "items": [
			{"Item ID": 1, "Weight": 10, "Price": 60},
			{"Item ID": 2, "Weight": 20, "Price": 100}]}`

		var first, second combinationResponse
		decode(post(body), &first)
		decode(post(body), &second)

		Expect(first.Cached).To(BeFalse())
		Expect(second.Cached).To(BeTrue())
		Expect(second.Items).To(Equal(first.Items))

		resp, err := http.Get(server.URL + "/metrics")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`best_combination_cache_lookups_total{result="hit"} 1`))
	})

	It("reports every validation failure at once", func() {
		resp := post(`{"max_weight": 100.5, "items": [
			{"Item ID": 1, "Weight": 0.001, "Price": 1},
			{"Item ID": 1, "Weight": 1, "Price": -1}]}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

		var body errorResponse
		decode(resp, &body)
		Expect(body.Details).To(And(
			ContainSubstring("Argument max_weight not valid"),
			ContainSubstring("Argument items[0].Weight not valid"),
			ContainSubstring("Argument items[1].Price not valid"),
			ContainSubstring("duplicate item id=1"),
		))
	})

	It("rejects more items than allowed", func() {
		items := make([]string, 16)
		for i := range items {
			items[i] = fmt.Sprintf(`{"Item ID": %d, "Weight": 1, "Price": 1}`, i+1)
		}
		resp := post(`{"max_weight": 10, "items": [` + strings.Join(items, ",") + `]}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("rejects malformed payloads", func() {
		resp := post(`{"max_weight": "abc"}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})
})

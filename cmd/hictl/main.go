// hictl is a small terminal client for the houston-intel API: a prompt
// loop that posts each question to /v1/query and pretty-prints the answer.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	serverURL = flag.String("server", "http://localhost:8080", "houston-intel API base URL")
	apiKey    = flag.String("api-key", "", "Bearer token (if the server requires auth)")
	timeout   = flag.Duration("timeout", 30*time.Second, "Request timeout")
)

type queryResult struct {
	ID     string `json:"id"`
	Cached bool   `json:"cached"`
	Result struct {
		Intent              string   `json:"intent"`
		Location            string   `json:"location"`
		Summary             string   `json:"executive_summary"`
		KeyInsights         []string `json:"key_insights"`
		CrossDomainInsights []string `json:"cross_domain_insights"`
		Recommendations     []string `json:"recommendations"`
		RiskFactors         []string `json:"risk_factors"`
		Opportunities       []string `json:"opportunities"`
		NextSteps           []string `json:"next_steps"`
		Sources             []string `json:"sources"`
		Confidence          float64  `json:"confidence"`
		DataPoints          []struct {
			Metric string `json:"metric"`
			Value  string `json:"value"`
		} `json:"data_points"`
	} `json:"result"`
}

func main() {
	flag.Parse()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Println(boldGreen("Houston Development Intelligence"))
	fmt.Printf("Server: %s\n", boldCyan(*serverURL))
	fmt.Println("Ask about Houston real estate. Type 'exit' or press Ctrl+C to quit.")
	fmt.Println()

	client := &http.Client{Timeout: *timeout}
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		res, err := ask(client, input)
		if err != nil {
			color.Red("error: %v", err)
			continue
		}

		fmt.Println()
		fmt.Println(boldCyan(res.Result.Summary))
		if len(res.Result.KeyInsights) > 0 {
			fmt.Println(color.YellowString("\nKey insights:"))
			for _, ins := range res.Result.KeyInsights {
				fmt.Println("  • " + ins)
			}
		}
		if len(res.Result.DataPoints) > 0 {
			fmt.Println(color.YellowString("\nData points:"))
			for _, dp := range res.Result.DataPoints {
				fmt.Printf("  %s: %s\n", dp.Metric, dp.Value)
			}
		}
		printSection := func(title string, items []string) {
			if len(items) == 0 {
				return
			}
			fmt.Println(color.YellowString("\n" + title + ":"))
			for _, it := range items {
				fmt.Println("  • " + it)
			}
		}
		printSection("Risks", res.Result.RiskFactors)
		printSection("Opportunities", res.Result.Opportunities)
		printSection("Recommendations", res.Result.Recommendations)
		printSection("Next steps", res.Result.NextSteps)

		cachedNote := ""
		if res.Cached {
			cachedNote = ", cached"
		}
		fmt.Println(dim(fmt.Sprintf("\n[confidence %.2f, sources: %s%s]",
			res.Result.Confidence, strings.Join(res.Result.Sources, ", "), cachedNote)))
		fmt.Println()
	}
}

func ask(client *http.Client, queryText string) (*queryResult, error) {
	body, err := json.Marshal(map[string]string{"query": queryText})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, *serverURL+"/v1/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Message)
	}

	var out queryResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BerylCAtieno/event-ideas-agent/internal/a2a"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 4 * time.Minute,
		},
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the agent")
	testType := flag.String("test", "all", "Test type: all, health, agent-card, metrics, ideas, form, custom")
	description := flag.String("event", "", "Event description for idea generation (for custom test)")
	flag.Parse()

	client := NewTestClient(*baseURL)

	printHeader("Event Ideas Agent - Test Suite")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	switch *testType {
	case "all":
		client.runAllTests()
	case "health":
		client.testHealthCheck()
	case "agent-card":
		client.testAgentCard()
	case "metrics":
		client.testMetrics()
	case "ideas":
		client.testIdeaGeneration()
	case "form":
		client.testFormSubmission()
	case "custom":
		if *description == "" {
			printError("Event description is required for custom test. Use -event flag")
			os.Exit(1)
		}
		client.testCustomIdeas(*description)
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, agent-card, metrics, ideas, form, custom")
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"Metrics", tc.testMetrics},
		{"Idea Generation", tc.testIdeaGeneration},
		{"Form Submission", tc.testFormSubmission},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// fetch issues a GET against path and returns the body when the status is 200.
func (tc *TestClient) fetch(path string) ([]byte, bool) {
	url := tc.baseURL + path
	fmt.Printf("GET %s\n", url)

	resp, err := tc.client.Get(url)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return nil, false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return nil, false
	}
	return body, true
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	body, ok := tc.fetch("/health")
	if !ok {
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

var agentCardFields = []string{"name", "description", "version", "capabilities", "endpoints", "skills"}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	body, ok := tc.fetch("/.well-known/agent.json")
	if !ok {
		return false
	}

	var card map[string]interface{}
	if err := json.Unmarshal(body, &card); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	for _, field := range agentCardFields {
		if _, ok := card[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	if endpoints, _ := card["endpoints"].(map[string]interface{}); endpoints["a2a"] != "/a2a/ideas" {
		printError(fmt.Sprintf("Agent card advertises A2A endpoint %v, want /a2a/ideas", endpoints["a2a"]))
		return false
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

func (tc *TestClient) testMetrics() bool {
	printTestHeader("Testing Metrics Endpoint")

	body, ok := tc.fetch("/metrics")
	if !ok {
		return false
	}
	for _, metric := range []string{"go_goroutines", "process_cpu_seconds_total"} {
		if !strings.Contains(string(body), metric) {
			printError(fmt.Sprintf("Metrics output is missing %s", metric))
			return false
		}
	}

	printSuccess("Metrics endpoint is serving")
	return true
}

// post sends body to path and returns the response body when the status is 200.
func (tc *TestClient) post(path, contentType string, body io.Reader) ([]byte, bool) {
	url := tc.baseURL + path
	fmt.Printf("POST %s\n", url)

	resp, err := tc.client.Post(url, contentType, body)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(respBody))
		return nil, false
	}
	return respBody, true
}

func (tc *TestClient) testFormSubmission() bool {
	printTestHeader("Testing Web Form Submission")

	form := url.Values{"description": {"  "}}
	body, ok := tc.post("/ideas", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if !ok {
		return false
	}
	if !strings.Contains(string(body), "Please enter an event description.") {
		printError("Blank submission did not render the validation message")
		return false
	}

	printSuccess("Form rejects a blank description")
	return true
}

func (tc *TestClient) testIdeaGeneration() bool {
	return tc.testCustomIdeas("A Women's Day celebration for 300 employees with interactive games")
}

type taskResponse struct {
	ID     json.RawMessage   `json:"id"`
	Error  *a2a.JSONRPCError `json:"error"`
	Result *a2a.TaskResult   `json:"result"`
}

func (tc *TestClient) testCustomIdeas(description string) bool {
	printTestHeader("Testing Idea Generation")
	fmt.Printf("%sEvent:%s %s\n\n", colorCyan, colorReset, description)

	// Numeric id: the agent must echo it back as a number.
	request := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      time.Now().Unix(),
		"method":  "message/send",
		"params": a2a.MessageParams{
			Message: a2a.A2AMessage{
				Kind:  "message",
				Role:  a2a.RoleUser,
				Parts: []a2a.MessagePart{a2a.TextPart(description)},
			},
			Configuration: a2a.MessageConfiguration{
				Blocking:            true,
				AcceptedOutputModes: []string{"text"},
			},
		},
	}
	jsonData, _ := json.MarshalIndent(request, "", "  ")
	fmt.Printf("%sRequest:%s\n%s\n\n", colorYellow, colorReset, string(jsonData))

	body, ok := tc.post("/a2a/ideas", "application/json", bytes.NewReader(jsonData))
	if !ok {
		return false
	}

	var resp taskResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if resp.Error != nil {
		printError(fmt.Sprintf("JSON-RPC error %d: %s", resp.Error.Code, resp.Error.Message))
		return false
	}
	if string(resp.ID) != fmt.Sprint(request["id"]) {
		printError(fmt.Sprintf("Response id %s does not match request id %v", resp.ID, request["id"]))
		return false
	}
	if resp.Result == nil || resp.Result.Status.Message == nil {
		printError("Response carries no task status message")
		printJSON(body)
		return false
	}

	task := resp.Result
	if task.Status.State != a2a.StateCompleted {
		printError(fmt.Sprintf("Expected state '%s', got '%s'", a2a.StateCompleted, task.Status.State))
		printJSON(body)
		return false
	}

	printSuccess("Idea generation completed successfully")

	fmt.Printf("\n%sGenerated Ideas:%s\n", colorGreen, colorReset)
	fmt.Println(strings.Repeat("=", 80))
	for _, part := range task.Status.Message.Parts {
		if text, ok := part.Text.(string); ok {
			fmt.Println(text)
		}
	}
	fmt.Println(strings.Repeat("=", 80))

	for _, artifact := range task.Artifacts {
		fmt.Printf("%sArtifact:%s %s (%s)\n", colorPurple, colorReset, artifact.Name, artifact.ArtifactID)
	}

	return true
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}

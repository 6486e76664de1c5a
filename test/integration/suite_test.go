//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/tidwall/gjson"
)

// errNoStub is returned by steps that drive the fake upstreams when the
// suite runs against an external BASE_URL.
var errNoStub = errors.New("step needs the in-process stack; unset BASE_URL")

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	baseURL      string
	stack        *stack
	client       *http.Client
	response     *http.Response
	responseBody []byte
	err          error
}

func newTestContext() *testContext {
	return &testContext{
		baseURL: os.Getenv("BASE_URL"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// start points the scenario at BASE_URL or at a fresh in-process stack.
func (tc *testContext) start() error {
	if tc.baseURL != "" {
		return nil
	}

	s, err := newStack(stackOptions{})
	if err != nil {
		return fmt.Errorf("starting in-process stack: %w", err)
	}

	tc.stack = s

	return nil
}

func (tc *testContext) url() string {
	if tc.stack != nil {
		return tc.stack.URL()
	}

	return tc.baseURL
}

// reset clears response state and stops the stack between scenarios.
func (tc *testContext) reset() {
	if tc.response != nil && tc.response.Body != nil {
		tc.response.Body.Close()
	}

	if tc.stack != nil {
		tc.stack.Close()
	}

	tc.stack = nil
	tc.response = nil
	tc.responseBody = nil
	tc.err = nil
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := newTestContext()

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()

		return ctx, tc.start()
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		tc.reset()

		return ctx, nil
	})

	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^the model replies with:$`, tc.theModelRepliesWith)
	ctx.Step(`^the model is failing$`, tc.theModelIsFailing)
	ctx.Step(`^the speech service fails (\d+) times?$`, tc.theSpeechServiceFails)
	ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
	ctx.Step(`^I POST "([^"]*)" with:$`, tc.iPOSTWith)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, tc.theJSONFieldShouldBe)
	ctx.Step(`^the JSON field "([^"]*)" should start with "([^"]*)"$`, tc.theJSONFieldShouldStartWith)
	ctx.Step(`^the JSON array "([^"]*)" should have (\d+) items?$`, tc.theJSONArrayShouldHave)
	ctx.Step(`^the last model prompt should contain "([^"]*)"$`, tc.theLastModelPromptShouldContain)
	ctx.Step(`^the speech service should have been called (\d+) times?$`, tc.theSpeechServiceShouldHaveBeenCalled)
}

func (tc *testContext) theServiceIsRunning() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.url()+"/-/live", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("service is not running at %s: %w", tc.url(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", resp.StatusCode)
	}

	return nil
}

func (tc *testContext) theModelRepliesWith(doc *godog.DocString) error {
	if tc.stack == nil {
		return errNoStub
	}

	tc.stack.model.setReply(doc.Content)

	return nil
}

func (tc *testContext) theModelIsFailing() error {
	if tc.stack == nil {
		return errNoStub
	}

	tc.stack.model.setStatus(http.StatusInternalServerError)

	return nil
}

func (tc *testContext) theSpeechServiceFails(times int) error {
	if tc.stack == nil {
		return errNoStub
	}

	tc.stack.speech.failures.Store(int32(times))

	return nil
}

func (tc *testContext) iRequestGET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *testContext) iPOSTWith(path string, doc *godog.DocString) error {
	return tc.do(http.MethodPost, path, strings.NewReader(doc.Content))
}

func (tc *testContext) do(method, path string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, tc.url()+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	tc.response, tc.err = tc.client.Do(req)
	if tc.err != nil {
		return fmt.Errorf("request failed: %w", tc.err)
	}

	tc.responseBody, tc.err = io.ReadAll(tc.response.Body)
	if tc.err != nil {
		return fmt.Errorf("failed to read response body: %w", tc.err)
	}

	return nil
}

func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if tc.responseBody == nil {
		return errors.New("no response body")
	}

	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

func (tc *testContext) field(path string) (gjson.Result, error) {
	if !gjson.ValidBytes(tc.responseBody) {
		return gjson.Result{}, fmt.Errorf("response is not JSON: %s", tc.responseBody)
	}

	res := gjson.GetBytes(tc.responseBody, path)
	if !res.Exists() {
		return res, fmt.Errorf("field %q missing in %s", path, tc.responseBody)
	}

	return res, nil
}

func (tc *testContext) theJSONFieldShouldBe(path, want string) error {
	res, err := tc.field(path)
	if err != nil {
		return err
	}

	if res.String() != want {
		return fmt.Errorf("field %q = %q, want %q", path, res.String(), want)
	}

	return nil
}

func (tc *testContext) theJSONFieldShouldStartWith(path, prefix string) error {
	res, err := tc.field(path)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(res.String(), prefix) {
		return fmt.Errorf("field %q = %q, want prefix %q", path, res.String(), prefix)
	}

	return nil
}

func (tc *testContext) theJSONArrayShouldHave(path string, n int) error {
	res, err := tc.field(path)
	if err != nil {
		return err
	}

	if got := len(res.Array()); got != n {
		return fmt.Errorf("array %q has %d items, want %d", path, got, n)
	}

	return nil
}

func (tc *testContext) theLastModelPromptShouldContain(text string) error {
	if tc.stack == nil {
		return errNoStub
	}

	if prompt := tc.stack.model.lastPrompt(); !strings.Contains(prompt, text) {
		return fmt.Errorf("last prompt does not contain %q:\n%s", text, prompt)
	}

	return nil
}

func (tc *testContext) theSpeechServiceShouldHaveBeenCalled(times int) error {
	if tc.stack == nil {
		return errNoStub
	}

	if got := int(tc.stack.speech.calls.Load()); got != times {
		return fmt.Errorf("expected %d synthesize calls, got %d", times, got)
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite. Without BASE_URL each scenario
// gets its own in-process service; with it, @stub scenarios are skipped.
func TestFeatures(t *testing.T) {
	tags := os.Getenv("GODOG_TAGS")
	if os.Getenv("BASE_URL") != "" && tags == "" {
		tags = "~@stub"
	}

	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     tags,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

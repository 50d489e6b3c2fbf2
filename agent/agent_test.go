package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"repopilot/llm"
	"repopilot/tools"
)

// scriptedProvider returns canned responses in order.
type scriptedProvider struct {
	responses []string
	calls     int
	lastMsgs  []llm.ChatMessage
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-1" }

func (p *scriptedProvider) Chat(_ context.Context, messages []llm.ChatMessage) (llm.LLMResponse, error) {
	p.lastMsgs = messages
	if p.calls >= len(p.responses) {
		return llm.LLMResponse{}, errors.New("script exhausted")
	}
	resp := p.responses[p.calls]
	p.calls++
	return llm.LLMResponse{
		Content: resp,
		Usage:   &llm.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

func (p *scriptedProvider) ChatWithFormat(ctx context.Context, messages []llm.ChatMessage, _ *llm.ResponseFormat) (llm.LLMResponse, error) {
	return p.Chat(ctx, messages)
}

func (p *scriptedProvider) StreamChat(ctx context.Context, messages []llm.ChatMessage, chunks chan<- string) (*llm.TokenUsage, error) {
	resp, err := p.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}
	chunks <- resp.Content
	return resp.Usage, nil
}

// echoTool records its input and returns a fixed output.
type echoTool struct {
	tools.BaseTool
	fail     bool
	lastArgs json.RawMessage
}

func (t *echoTool) Metadata() tools.ToolMetadata {
	return tools.ToolMetadata{
		Name:        "echo",
		Description: "Echoes back the message",
		Parameters: []tools.ToolParameter{
			{Name: "message", ParamType: "string", Description: "text to echo", Required: true},
		},
	}
}

func (t *echoTool) Execute(_ context.Context, args json.RawMessage) (tools.ToolResult, error) {
	t.lastArgs = args
	if t.fail {
		return tools.FailureResult(errors.New("echo is broken")), nil
	}
	var input struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return tools.FailureResult(err), nil
	}
	return tools.SuccessResult("echo: " + input.Message), nil
}

func decisionJSON(thought, tool, input string, isFinal bool, finalAnswer string) string {
	d := map[string]interface{}{
		"thought":  thought,
		"is_final": isFinal,
	}
	if tool != "" {
		d["action"] = map[string]interface{}{
			"tool":  tool,
			"input": json.RawMessage(input),
		}
	}
	if finalAnswer != "" {
		d["final_answer"] = finalAnswer
	}
	b, _ := json.Marshal(d)
	return string(b)
}

func newTestAgent(provider llm.Provider, toolList ...tools.Tool) *Agent {
	return New(Config{
		Name:         "tester",
		Description:  "test agent",
		SystemPrompt: "You are a test assistant.",
		Tools:        toolList,
	}, provider)
}

func TestExecuteDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		decisionJSON("nothing to do", "", "", true, "all done"),
	}}
	a := newTestAgent(provider)

	resp := a.Execute(context.Background(), "say done", 5)

	if !resp.IsSuccess() {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Result != "all done" {
		t.Errorf("Result = %q, want %q", resp.Result, "all done")
	}
	if resp.Metadata.LLMCalls != 1 {
		t.Errorf("LLMCalls = %d, want 1", resp.Metadata.LLMCalls)
	}
	if resp.Metadata.TokenUsage == nil || resp.Metadata.TokenUsage.TotalTokens != 15 {
		t.Errorf("TokenUsage = %+v", resp.Metadata.TokenUsage)
	}
}

func TestExecuteRunsTool(t *testing.T) {
	tool := &echoTool{}
	provider := &scriptedProvider{responses: []string{
		decisionJSON("use echo", "echo", `{"message": "hi"}`, false, ""),
		decisionJSON("done", "", "", true, "echoed"),
	}}
	a := newTestAgent(provider, tool)

	resp := a.Execute(context.Background(), "echo hi", 5)

	if !resp.IsSuccess() {
		t.Fatalf("response = %+v", resp)
	}
	if tool.lastArgs == nil {
		t.Fatal("tool was never executed")
	}
	if len(resp.Metadata.ToolCalls) != 1 {
		t.Fatalf("ToolCalls = %+v", resp.Metadata.ToolCalls)
	}
	tc := resp.Metadata.ToolCalls[0]
	if tc.Name != "echo" || !tc.Success {
		t.Errorf("ToolCall = %+v", tc)
	}

	// The observation with the tool output must have reached the model.
	found := false
	for _, msg := range provider.lastMsgs {
		if msg.Role == "user" && strings.Contains(msg.Content, "Observation: echo: hi") {
			found = true
		}
	}
	if !found {
		t.Error("tool output never appeared as an observation")
	}
}

func TestToolFailureBecomesObservation(t *testing.T) {
	tool := &echoTool{fail: true}
	provider := &scriptedProvider{responses: []string{
		decisionJSON("use echo", "echo", `{"message": "hi"}`, false, ""),
		decisionJSON("give up", "", "", true, "echo unavailable"),
	}}
	a := newTestAgent(provider, tool)

	resp := a.Execute(context.Background(), "echo hi", 5)

	if !resp.IsSuccess() {
		t.Fatalf("a failed tool must not fail the run: %+v", resp)
	}
	found := false
	for _, msg := range provider.lastMsgs {
		if msg.Role == "user" && strings.Contains(msg.Content, "Observation: Error: echo is broken") {
			found = true
		}
	}
	if !found {
		t.Error("failure text never appeared as an observation")
	}
	if len(resp.Metadata.ToolCalls) != 1 || resp.Metadata.ToolCalls[0].Success {
		t.Errorf("ToolCalls = %+v", resp.Metadata.ToolCalls)
	}
}

func TestUnknownToolBecomesObservation(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		decisionJSON("try missing", "missing", `{}`, false, ""),
		decisionJSON("done", "", "", true, "no such tool"),
	}}
	a := newTestAgent(provider)

	resp := a.Execute(context.Background(), "use missing", 5)

	if !resp.IsSuccess() {
		t.Fatalf("response = %+v", resp)
	}
	found := false
	for _, msg := range provider.lastMsgs {
		if msg.Role == "user" && strings.Contains(msg.Content, "Tool failed:") {
			found = true
		}
	}
	if !found {
		t.Error("missing tool never reported to the model")
	}
}

func TestMaxIterationsTimeout(t *testing.T) {
	tool := &echoTool{}
	loop := decisionJSON("again", "echo", `{"message": "hi"}`, false, "")
	provider := &scriptedProvider{responses: []string{loop, loop, loop}}
	a := newTestAgent(provider, tool)

	resp := a.Execute(context.Background(), "never finish", 3)

	if resp.Type != ResponseTimeout {
		t.Fatalf("Type = %v, want timeout", resp.Type)
	}
	if resp.PartialResult != "Max iterations reached" {
		t.Errorf("PartialResult = %q", resp.PartialResult)
	}
	if len(resp.Steps) != 3 {
		t.Errorf("Steps = %d, want 3", len(resp.Steps))
	}
}

func TestNonJSONResponseTreatedAsThought(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"I am thinking out loud without any JSON here",
		decisionJSON("done", "", "", true, "ok"),
	}}
	a := newTestAgent(provider)

	resp := a.Execute(context.Background(), "ramble", 5)

	if !resp.IsSuccess() {
		t.Fatalf("response = %+v", resp)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("Steps = %d, want 2", len(resp.Steps))
	}
	if obs := resp.Steps[0].Observation; obs == nil || *obs != "No action specified" {
		t.Errorf("first observation = %v", resp.Steps[0].Observation)
	}
}

func TestImplicitCompletionAfterProgress(t *testing.T) {
	tool := &echoTool{}
	provider := &scriptedProvider{responses: []string{
		decisionJSON("use echo", "echo", `{"message": "hi"}`, false, ""),
		decisionJSON("the echo worked", "", "", false, ""),
	}}
	a := newTestAgent(provider, tool)

	resp := a.Execute(context.Background(), "echo hi", 5)

	if !resp.IsSuccess() {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Result != "the echo worked" {
		t.Errorf("Result = %q", resp.Result)
	}
}

func TestReturnToolOutput(t *testing.T) {
	tool := &echoTool{}
	provider := &scriptedProvider{responses: []string{
		decisionJSON("use echo", "echo", `{"message": "hi"}`, false, ""),
		decisionJSON("done", "", "", true, "summary text"),
	}}
	a := New(Config{
		Name:             "tester",
		SystemPrompt:     "You are a test assistant.",
		Tools:            []tools.Tool{tool},
		ReturnToolOutput: true,
	}, provider)

	resp := a.Execute(context.Background(), "echo hi", 5)

	if resp.Result != "echo: hi" {
		t.Errorf("Result = %q, want tool output", resp.Result)
	}
}

func TestHistoryCarriedIntoConversation(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		decisionJSON("done", "", "", true, "ok"),
	}}
	a := newTestAgent(provider)

	history := []llm.ChatMessage{
		llm.SystemMessage("stale system prompt"),
		llm.UserMessage("earlier question"),
		llm.AssistantMessage("earlier answer"),
	}
	resp := a.ExecuteWithHistory(context.Background(), "follow up", history, 5)

	if !resp.IsSuccess() {
		t.Fatalf("response = %+v", resp)
	}
	msgs := provider.lastMsgs
	if msgs[0].Role != "system" || !strings.Contains(msgs[0].Content, "You are a test assistant.") {
		t.Errorf("head message = %+v", msgs[0])
	}
	for _, msg := range msgs[1:] {
		if msg.Role == "system" {
			t.Error("stale system prompt carried into conversation")
		}
	}
	if msgs[1].Content != "earlier question" || msgs[2].Content != "earlier answer" {
		t.Errorf("history not preserved: %+v", msgs[1:3])
	}
	if !strings.Contains(msgs[3].Content, "Task: follow up") {
		t.Errorf("task message = %+v", msgs[3])
	}
}

func TestSystemPromptListsTools(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		decisionJSON("done", "", "", true, "ok"),
	}}
	a := newTestAgent(provider, &echoTool{})

	a.Execute(context.Background(), "anything", 7)

	sys := provider.lastMsgs[0].Content
	for _, want := range []string{"Tool: echo", "message (string)", "maximum of 7 iterations"} {
		if !strings.Contains(sys, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptedProvider{responses: []string{
		decisionJSON("done", "", "", true, "ok"),
	}}
	a := newTestAgent(provider)

	resp := a.Execute(ctx, "anything", 5)

	if resp.Type != ResponseFailure {
		t.Fatalf("Type = %v, want failure", resp.Type)
	}
	if !strings.Contains(resp.Error, "cancelled") {
		t.Errorf("Error = %q", resp.Error)
	}
}

func TestDecisionFinalAnswerAcceptsJSONValue(t *testing.T) {
	var d Decision
	raw := `{"thought": "t", "is_final": true, "final_answer": {"files": 3}}`
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.FinalAnswer == nil || !strings.Contains(*d.FinalAnswer, `"files": 3`) {
		t.Errorf("FinalAnswer = %v", d.FinalAnswer)
	}
}

func TestResponseResultText(t *testing.T) {
	cases := []struct {
		resp Response
		want string
	}{
		{NewSuccessResponse("yes", nil, nil, 0, "a", nil, 1), "yes"},
		{NewFailureResponse("boom", nil, 0), "boom"},
		{NewTimeoutResponse(nil, nil, 0, nil, 1), "Max iterations reached"},
	}
	for i, c := range cases {
		if got := c.resp.ResultText(); got != c.want {
			t.Errorf("case %d: ResultText = %q, want %q", i, got, c.want)
		}
	}
}

func TestUrgencyWarningNearLimit(t *testing.T) {
	tool := &echoTool{}
	loop := decisionJSON("again", "echo", `{"message": "hi"}`, false, "")
	provider := &scriptedProvider{responses: []string{loop, loop}}
	a := newTestAgent(provider, tool)

	a.Execute(context.Background(), "loop", 2)

	found := false
	for _, msg := range provider.lastMsgs {
		if strings.Contains(msg.Content, "WARNING: Only") {
			found = true
		}
	}
	if !found {
		t.Error("urgency warning never issued")
	}
}

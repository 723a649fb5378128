package llm

import "testing"

func TestExtractJSONDirectObject(t *testing.T) {
	data, ok := ExtractJSON(`{"answer": "yes"}`)
	if !ok {
		t.Fatal("expected JSON object")
	}
	if data["answer"] != "yes" {
		t.Fatalf("unexpected value: %v", data["answer"])
	}
}

func TestExtractJSONFencedBlock(t *testing.T) {
	text := "Here is the result:\n```json\n{\"tool\": \"qa\"}\n```\nLet me know if you need more."

	data, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected JSON object in fenced block")
	}
	if data["tool"] != "qa" {
		t.Fatalf("unexpected tool: %v", data["tool"])
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	text := "```\n{\"severity\": \"High\"}\n```"

	data, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected JSON object in bare fence")
	}
	if data["severity"] != "High" {
		t.Fatalf("unexpected severity: %v", data["severity"])
	}
}

func TestExtractJSONBraceSpan(t *testing.T) {
	text := `The decision is {"tool": "issue_summary", "rationale": "it is a report"} as requested.`

	data, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected JSON object in prose")
	}
	if data["tool"] != "issue_summary" {
		t.Fatalf("unexpected tool: %v", data["tool"])
	}
}

func TestExtractJSONRejectsGarbage(t *testing.T) {
	if _, ok := ExtractJSON("no json here"); ok {
		t.Fatal("expected extraction to fail")
	}
}

func TestExtractJSONRejectsNonObjects(t *testing.T) {
	if _, ok := ExtractJSON("null"); ok {
		t.Fatal("expected null to be rejected")
	}
	if _, ok := ExtractJSON(`["a", "b"]`); ok {
		t.Fatal("expected array to be rejected")
	}
	if _, ok := ExtractJSON("42"); ok {
		t.Fatal("expected scalar to be rejected")
	}
}

func TestDecodeJSONIntoStruct(t *testing.T) {
	var payload struct {
		Answer string `json:"answer"`
	}
	if !DecodeJSON("```json\n{\"answer\": \"ok\"}\n```", &payload) {
		t.Fatal("expected decode to succeed")
	}
	if payload.Answer != "ok" {
		t.Fatalf("unexpected answer: %q", payload.Answer)
	}
}

func TestDecodeJSONTypeMismatch(t *testing.T) {
	var payload struct {
		Items []string `json:"items"`
	}
	if DecodeJSON(`{"items": "not a list"}`, &payload) {
		t.Fatal("expected decode to fail on type mismatch")
	}
}

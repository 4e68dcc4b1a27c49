package analysis

import (
	"time"

	"github.com/bryanwahyu/privacy-prism/internal/domain/ai"
)

// Content bounds, counted in characters (runes).
const (
	MinContentChars = 10
	MaxContentChars = 20000
	// MaxRawInputBytes caps what a caller may submit before normalization.
	MaxRawInputBytes = 10 << 20
)

// SourceKind tells the orchestrator how to obtain the content.
type SourceKind string

const (
	SourceText SourceKind = "text"
	SourceURL  SourceKind = "url"
)

// ParseSourceKind maps a wire value to a SourceKind; anything but "url" is text.
func ParseSourceKind(s string) SourceKind {
	if s == string(SourceURL) {
		return SourceURL
	}
	return SourceText
}

// DimensionProfile is one immutable entry of the prompt catalog.
type DimensionProfile struct {
	Key               string
	Label             string
	Codename          string
	SystemInstruction string
	UserTemplate      string
	TargetLength      string
}

// Request is a normalized submission. Content is already trimmed and bounded.
type Request struct {
	Content string
	Source  SourceKind
}

// Status discriminates the two outcome variants.
type Status string

const (
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// DimensionOutcome is the settled result of one dimension task: either
// fulfilled (Text set) or rejected (Error set), never both.
type DimensionOutcome struct {
	Key          string    `json:"key"`
	Label        string    `json:"label"`
	Codename     string    `json:"codename"`
	Status       Status    `json:"status"`
	Text         string    `json:"content,omitempty"`
	Error        string    `json:"error,omitempty"`
	Model        string    `json:"model"`
	TargetLength string    `json:"targetWords,omitempty"`
	Usage        *ai.Usage `json:"usage,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Succeeded builds the fulfilled variant.
func Succeeded(p DimensionProfile, model string, c ai.Completion, started, completed time.Time) DimensionOutcome {
	usage := c.Usage
	return DimensionOutcome{
		Key:          p.Key,
		Label:        p.Label,
		Codename:     p.Codename,
		Status:       StatusFulfilled,
		Text:         c.Text,
		Model:        model,
		TargetLength: p.TargetLength,
		Usage:        &usage,
		StartedAt:    started,
		CompletedAt:  completed,
	}
}

// Failed builds the rejected variant. Label and codename fall back to the key
// when the profile itself could not be resolved.
func Failed(p DimensionProfile, model string, err error, started, completed time.Time) DimensionOutcome {
	label, codename := p.Label, p.Codename
	if label == "" {
		label = p.Key
	}
	if codename == "" {
		codename = p.Key
	}
	msg := "LLM call failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return DimensionOutcome{
		Key:         p.Key,
		Label:       label,
		Codename:    codename,
		Status:      StatusRejected,
		Error:       msg,
		Model:       model,
		StartedAt:   started,
		CompletedAt: completed,
	}
}

func (o DimensionOutcome) OK() bool { return o.Status == StatusFulfilled }

// Finding is the text fed to the synthesis stage: the answer, or the failure.
func (o DimensionOutcome) Finding() string {
	if o.OK() {
		return o.Text
	}
	return o.Error
}

func (o DimensionOutcome) Duration() time.Duration { return o.CompletedAt.Sub(o.StartedAt) }

// SynthesisOutcome is the settled result of the cross-dimension stage.
type SynthesisOutcome struct {
	Status Status    `json:"status"`
	Text   string    `json:"content,omitempty"`
	Error  string    `json:"error,omitempty"`
	Model  string    `json:"model,omitempty"`
	Usage  *ai.Usage `json:"usage,omitempty"`
}

func SynthesisSucceeded(model string, c ai.Completion) SynthesisOutcome {
	usage := c.Usage
	return SynthesisOutcome{Status: StatusFulfilled, Text: c.Text, Model: model, Usage: &usage}
}

func SynthesisFailed(model string, err error) SynthesisOutcome {
	msg := "Summary agent failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return SynthesisOutcome{Status: StatusRejected, Error: msg, Model: model}
}

func (o SynthesisOutcome) OK() bool { return o.Status == StatusFulfilled }

// SourceInfo describes where the analyzed content came from.
type SourceInfo struct {
	Type             SourceKind `json:"type"`
	Provided         string     `json:"provided"`
	ExtractedPreview string     `json:"extractedPreview,omitempty"`
	Length           int        `json:"length"`
}

// Report is the terminal aggregate of one orchestration.
type Report struct {
	ID          string                      `json:"id"`
	Content     string                      `json:"content"`
	Order       []string                    `json:"order"`
	Dimensions  map[string]DimensionOutcome `json:"agents"`
	Synthesis   SynthesisOutcome            `json:"summary"`
	Source      SourceInfo                  `json:"source"`
	StartedAt   time.Time                   `json:"startedAt"`
	CompletedAt time.Time                   `json:"completedAt"`
	ElapsedMs   int64                       `json:"elapsedMs"`
}

// Outcomes returns the dimension outcomes in catalog order.
func (r Report) Outcomes() []DimensionOutcome {
	out := make([]DimensionOutcome, 0, len(r.Order))
	for _, key := range r.Order {
		if o, ok := r.Dimensions[key]; ok {
			out = append(out, o)
		}
	}
	return out
}

// Document is the payload a Renderer turns into a downloadable file.
type Document struct {
	Content    string            `json:"content"`
	Results    map[string]string `json:"results"`
	Summary    string            `json:"summary"`
	Timestamp  string            `json:"timestamp"`
	FooterText string            `json:"footerText,omitempty"`
}

// DocumentFromReport converts a finished report into renderer input.
func DocumentFromReport(r Report, timestamp string) Document {
	results := make(map[string]string, len(r.Dimensions))
	for key, o := range r.Dimensions {
		results[key] = o.Finding()
	}
	return Document{
		Content:   r.Content,
		Results:   results,
		Summary:   r.Synthesis.Text,
		Timestamp: timestamp,
	}
}

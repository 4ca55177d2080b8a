package twiml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
)

// Minimal TwiML response builder. It intentionally avoids any provider SDK
// dependency; only the verbs the call flow needs exist here.

type Response struct {
	verbs []any
}

type say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type record struct {
	XMLName                 xml.Name `xml:"Record"`
	Timeout                 int      `xml:"timeout,attr,omitempty"`
	FinishOnKey             string   `xml:"finishOnKey,attr,omitempty"`
	MaxLength               int      `xml:"maxLength,attr,omitempty"`
	Action                  string   `xml:"action,attr,omitempty"`
	Method                  string   `xml:"method,attr,omitempty"`
	RecordingStatusCallback string   `xml:"recordingStatusCallback,attr,omitempty"`
	Transcribe              bool     `xml:"transcribe,attr"`
}

type hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

type responseDoc struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type RecordOptions struct {
	TimeoutSeconds   int
	FinishOnKey      string
	MaxLengthSeconds int
	Action           string
	StatusCallback   string
}

func New() *Response {
	return &Response{}
}

func (r *Response) Say(text string) *Response {
	r.verbs = append(r.verbs, say{Voice: "alice", Language: "en-US", Text: text})
	return r
}

func (r *Response) Record(opts RecordOptions) *Response {
	if opts.TimeoutSeconds == 0 {
		opts.TimeoutSeconds = 10
	}
	if opts.FinishOnKey == "" {
		opts.FinishOnKey = "#"
	}
	if opts.MaxLengthSeconds == 0 {
		opts.MaxLengthSeconds = 30
	}

	r.verbs = append(r.verbs, record{
		Timeout:                 opts.TimeoutSeconds,
		FinishOnKey:             opts.FinishOnKey,
		MaxLength:               opts.MaxLengthSeconds,
		Action:                  opts.Action,
		Method:                  "POST",
		RecordingStatusCallback: opts.StatusCallback,
	})
	return r
}

func (r *Response) Hangup() *Response {
	r.verbs = append(r.verbs, hangup{})
	return r
}

func (r *Response) Render() (string, error) {
	if len(r.verbs) == 0 {
		return "", errors.New("twiml: empty response")
	}

	doc := responseDoc{Verbs: r.verbs}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}

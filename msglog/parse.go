package msglog

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
)

var lineRe = regexp.MustCompile(`^\[(.*?)\] FROM: (.*?) \| MESSAGE: (.*?) \| REPLY: (.*)$`)

// Record is one parsed log line. Lines matching the expected format come
// back structured; anything else (hand-edited, corrupted) is carried as
// Raw instead of being dropped.
type Record struct {
	Timestamp string
	From      string
	Message   string
	Reply     string
	Raw       string
}

func (r Record) IsRaw() bool { return r.Raw != "" }

func (r Record) MarshalJSON() ([]byte, error) {
	if r.IsRaw() {
		return json.Marshal(struct {
			Raw string `json:"raw"`
		}{r.Raw})
	}
	return json.Marshal(struct {
		Timestamp string `json:"timestamp"`
		From      string `json:"from"`
		Message   string `json:"message"`
		Reply     string `json:"reply"`
	}{r.Timestamp, r.From, r.Message, r.Reply})
}

// ParseLine turns one log line into a Record.
func ParseLine(line string) Record {
	if m := lineRe.FindStringSubmatch(line); m != nil {
		return Record{Timestamp: m[1], From: m[2], Message: m[3], Reply: m[4]}
	}
	return Record{Raw: line}
}

// Records reads the whole log and returns records most-recent first.
// A missing file is an empty log, not an error.
func (l *Log) Records() ([]Record, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	var records []Record
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, ParseLine(line))
	}
	// Reverse in place: callers want the newest entry first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

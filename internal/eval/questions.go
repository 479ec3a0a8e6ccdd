// Package eval measures groundedness and citation accuracy of the chat
// endpoint against a fixed question set, and exports samples for manual
// adjudication.
package eval

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Question is one eval case. Type is "answerable" or "unanswerable".
type Question struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Question string `json:"question"`
}

// LoadQuestions reads a JSONL question file, skipping blank lines.
func LoadQuestions(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions: %w", err)
	}
	defer f.Close()

	var questions []Question
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var q Question
		if err := json.Unmarshal([]byte(line), &q); err != nil {
			return nil, fmt.Errorf("parse questions line %d: %w", lineNo, err)
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%02d", len(questions)+1)
		}
		if q.Type == "" {
			q.Type = "answerable"
		}
		questions = append(questions, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return questions, nil
}

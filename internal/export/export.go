package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/duke-go/internal/task"
)

// SchemaVersion is the version written to every export.
const SchemaVersion = 1

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want json or yaml)", s)
	}
}

// Document is the exported form of a task collection.
type Document struct {
	Version    int       `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Source     string    `json:"source" yaml:"source"`
	Count      int       `json:"count" yaml:"count"`
	Tasks      []Record  `json:"tasks" yaml:"tasks"`
}

// Record is one exported task. Index is the 1-based list position.
type Record struct {
	Index       int    `json:"index" yaml:"index"`
	Kind        string `json:"kind" yaml:"kind"`
	Description string `json:"description" yaml:"description"`
	Done        bool   `json:"done" yaml:"done"`
	Timing      string `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// NewDocument builds an export of tasks read from source.
func NewDocument(tasks []task.Task, source string, now time.Time) *Document {
	doc := &Document{
		Version:    SchemaVersion,
		ExportedAt: now.UTC().Truncate(time.Second),
		Source:     source,
		Count:      len(tasks),
		Tasks:      make([]Record, 0, len(tasks)),
	}
	for i, t := range tasks {
		rec := Record{
			Index:       i + 1,
			Kind:        t.Kind().String(),
			Description: t.Description(),
			Done:        t.IsDone(),
		}
		if at, ok := t.Timing(); ok {
			rec.Timing = at.Format(task.TimeLayout)
		}
		doc.Tasks = append(doc.Tasks, rec)
	}
	return doc
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Read decodes a document previously written with Write.
func Read(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	return &doc, nil
}

// ToTasks converts the records back into tasks in the order stored.
func (d *Document) ToTasks() ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(d.Tasks))
	for _, rec := range d.Tasks {
		t, err := rec.task()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", rec.Index, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r Record) task() (task.Task, error) {
	var t task.Task
	switch r.Kind {
	case task.KindToDo.String():
		t = task.NewToDo(r.Description)
	case task.KindEvent.String(), task.KindDeadline.String():
		at, err := time.Parse(task.TimeLayout, r.Timing)
		if err != nil {
			return task.Task{}, fmt.Errorf("parse timing %q: %w", r.Timing, err)
		}
		if r.Kind == task.KindEvent.String() {
			t = task.NewEvent(r.Description, at)
		} else {
			t = task.NewDeadline(r.Description, at)
		}
	default:
		return task.Task{}, fmt.Errorf("unknown task kind %q", r.Kind)
	}
	if r.Done {
		t.Complete()
	}
	return t, nil
}

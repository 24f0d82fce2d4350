package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *structpb.Struct)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand RunCommandReport `json:"run_command_report"`
	Jobs       JobReport        `json:"job_report"`
}

// Update adds a log entry to the report.
func (r *Report) Update(le *structpb.Struct) {
	r.LogEntries++

	fields := le.GetFields()
	data := fields[FieldData].GetStructValue().GetFields()

	switch event := fields[FieldEvent].GetStringValue(); event {
	case EventSessionStart:
		r.Sessions++
	case EventRunCommand:
		r.RunCommand.update(data)
	case EventJobAdded, EventJobStopped, EventJobDone, EventJobResumed:
		r.Jobs.update(event, data)
	case EventSessionEnd:
		// Ignore
	default:
		r.InvalidEntries.Increment(event)
	}
}

// RunCommandReport summarizes executed command lines.
type RunCommandReport struct {
	// Name of the first program in each pipeline.
	CommandNames StrCounter `json:"command_names"`
	// Exit statuses of the pipelines.
	ExitStatuses StrCounter `json:"exit_statuses"`
	// Number of stages in each pipeline.
	PipelineLengths StrCounter `json:"pipeline_lengths"`
	Background      int        `json:"background"`
}

func (r *RunCommandReport) update(data map[string]*structpb.Value) {
	argv := data["argv"].GetListValue().GetValues()
	if len(argv) > 0 {
		r.CommandNames.Increment(argv[0].GetStringValue())
	}
	r.ExitStatuses.Increment(formatNumber(data["status"]))
	r.PipelineLengths.Increment(formatNumber(data["stages"]))
	if data["background"].GetBoolValue() {
		r.Background++
	}
}

// JobReport summarizes job control activity.
type JobReport struct {
	Transitions StrCounter `json:"transitions"`
	Commands    StrCounter `json:"commands"`
}

func (r *JobReport) update(event string, data map[string]*structpb.Value) {
	r.Transitions.Increment(event)
	if event == EventJobAdded {
		r.Commands.Increment(data["command"].GetStringValue())
	}
}

func formatNumber(v *structpb.Value) string {
	return strconv.FormatInt(int64(v.GetNumberValue()), 10)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// Keys returns the counted strings in sorted order.
func (s *StrCounter) Keys() []string {
	var out []string
	for k := range s.internal {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

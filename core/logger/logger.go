package logger

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Event names.
const (
	EventSessionStart = "session_start"
	EventSessionEnd   = "session_end"
	EventRunCommand   = "run_command"
	EventJobAdded     = "job_added"
	EventJobStopped   = "job_stopped"
	EventJobDone      = "job_done"
	EventJobResumed   = "job_resumed"
)

// Entry field names.
const (
	FieldTimestampMicros = "timestamp_micros"
	FieldSessionID       = "session_id"
	FieldEvent           = "event"
	FieldData            = "data"
)

// Fields holds the event specific data of an entry. Values may be strings,
// bools, ints, int64s, float64s, durations, string slices or nested Fields.
type Fields map[string]interface{}

// LogRecorder is a callback that stores entries in an external datastore.
type LogRecorder func(le *structpb.Struct) error

// Logger captures shell events.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *structpb.Struct) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*structpb.Struct) error { return nil },
	}
}

func (l *Logger) recordEvent(sessionID, event string, data Fields) error {
	dataValue, err := toValue(data)
	if err != nil {
		return fmt.Errorf("%s: %w", event, err)
	}

	le := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldTimestampMicros: structpb.NewNumberValue(float64(time.Now().UnixMicro())),
		FieldSessionID:       structpb.NewStringValue(sessionID),
		FieldEvent:           structpb.NewStringValue(event),
		FieldData:            dataValue,
	}}

	return l.Record(le)
}

// NewSession creates a logger with an attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record writes a single event.
func (l *SessionLogger) Record(event string, data Fields) error {
	return l.recordEvent(l.sessionID, event, data)
}

func toValue(v interface{}) (*structpb.Value, error) {
	switch v := v.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case string:
		return structpb.NewStringValue(v), nil
	case bool:
		return structpb.NewBoolValue(v), nil
	case int:
		return structpb.NewNumberValue(float64(v)), nil
	case int64:
		return structpb.NewNumberValue(float64(v)), nil
	case float64:
		return structpb.NewNumberValue(v), nil
	case time.Duration:
		return structpb.NewNumberValue(float64(v.Microseconds())), nil
	case []string:
		list := &structpb.ListValue{}
		for _, s := range v {
			list.Values = append(list.Values, structpb.NewStringValue(s))
		}
		return structpb.NewListValue(list), nil
	case Fields:
		out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(v))}
		for k, field := range v {
			converted, err := toValue(field)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			out.Fields[k] = converted
		}
		return structpb.NewStructValue(out), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

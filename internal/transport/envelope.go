package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/eshaffer321/board-go/internal/types"
	"github.com/pkg/errors"
)

// BodyKind identifies which case of Body is populated
type BodyKind int

const (
	// BodyEmpty is a response without a body
	BodyEmpty BodyKind = iota
	// BodyJSON holds a parsed JSON document
	BodyJSON
	// BodyText holds a non-JSON body such as a proxy's HTML error page
	BodyText
	// BodyDecodeError replaces a body that could not be read or parsed
	BodyDecodeError
	// BodyNetworkError marks an envelope built without any response
	BodyNetworkError
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyJSON:
		return "json"
	case BodyText:
		return "text"
	case BodyDecodeError:
		return "decode_error"
	case BodyNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Body is the normalized response payload
type Body struct {
	Kind BodyKind

	// JSON is set for BodyJSON
	JSON json.RawMessage

	// Text is the raw text for BodyText, or the placeholder for the error kinds
	Text string
}

// Envelope is the uniform result of every request
type Envelope struct {
	OK     bool `json:"ok"`
	Status int  `json:"status"`
	Data   Body `json:"data"`

	// RequestID is the X-Request-ID sent with the request
	RequestID string `json:"-"`
}

// IsEmpty reports a response without a body
func (b Body) IsEmpty() bool { return b.Kind == BodyEmpty }

// IsText reports a non-JSON body
func (b Body) IsText() bool { return b.Kind == BodyText }

// IsNetworkError reports an envelope produced without a response
func (b Body) IsNetworkError() bool { return b.Kind == BodyNetworkError }

// Decode unmarshals a JSON body into v
func (b Body) Decode(v interface{}) error {
	if b.Kind != BodyJSON {
		return errors.Errorf("cannot decode %s body", b.Kind)
	}
	if err := json.Unmarshal(b.JSON, v); err != nil {
		return errors.Wrap(err, "failed to decode response body")
	}
	return nil
}

// Message returns a human readable message carried by the body.
// For JSON bodies this is the top-level "message" or "detail" string.
func (b Body) Message() string {
	switch b.Kind {
	case BodyText, BodyDecodeError, BodyNetworkError:
		return b.Text
	case BodyJSON:
		var msg struct {
			Message string          `json:"message"`
			Detail  json.RawMessage `json:"detail"`
		}
		if err := json.Unmarshal(b.JSON, &msg); err != nil {
			return ""
		}
		if msg.Message != "" {
			return msg.Message
		}
		var detail string
		if json.Unmarshal(msg.Detail, &detail) == nil {
			return detail
		}
	}
	return ""
}

// MarshalJSON renders the body in its wire-independent shape
func (b Body) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BodyJSON:
		if len(b.JSON) == 0 {
			return []byte("null"), nil
		}
		return b.JSON, nil
	case BodyText:
		return json.Marshal(struct {
			Message string `json:"message"`
			IsText  bool   `json:"isText"`
		}{b.Text, true})
	case BodyDecodeError:
		return json.Marshal(struct {
			Message string `json:"message"`
		}{b.Text})
	case BodyNetworkError:
		return json.Marshal(struct {
			Message        string `json:"message"`
			IsNetworkError bool   `json:"isNetworkError"`
		}{b.Text, true})
	default:
		return []byte("null"), nil
	}
}

// Err converts a non-ok envelope into a *types.Error, nil when ok
func (e *Envelope) Err() error {
	if e == nil {
		return types.NewStatusError(0, types.MessageNetwork)
	}
	if e.OK {
		return nil
	}
	apiErr := types.NewStatusError(e.Status, e.Data.Message())
	apiErr.RequestID = e.RequestID
	return apiErr
}

// Decode builds an envelope from a received response. It has no side effects.
func Decode(status int, header http.Header, body []byte, readErr error) *Envelope {
	env := &Envelope{
		OK:     status >= 200 && status < 300,
		Status: status,
	}

	if readErr != nil {
		env.Data = Body{Kind: BodyDecodeError, Text: types.MessageUndecodable}
		return env
	}

	if isJSON(header.Get("Content-Type")) {
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 || !json.Valid(trimmed) {
			env.Data = Body{Kind: BodyDecodeError, Text: types.MessageUndecodable}
			return env
		}
		env.Data = Body{Kind: BodyJSON, JSON: json.RawMessage(append([]byte(nil), trimmed...))}
		return env
	}

	if len(body) == 0 {
		env.Data = Body{Kind: BodyEmpty}
		return env
	}
	env.Data = Body{Kind: BodyText, Text: string(body)}
	return env
}

// NetworkFailure builds the envelope returned when no response arrived
func NetworkFailure() *Envelope {
	return &Envelope{
		OK:     false,
		Status: 0,
		Data:   Body{Kind: BodyNetworkError, Text: types.MessageNetwork},
	}
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

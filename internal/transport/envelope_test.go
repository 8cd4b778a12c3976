package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/eshaffer321/board-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(ct string) http.Header {
	h := http.Header{}
	if ct != "" {
		h.Set("Content-Type", ct)
	}
	return h
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		ct       string
		body     string
		readErr  error
		wantOK   bool
		wantKind BodyKind
		wantText string
	}{
		{"json object", 200, "application/json", `{"message":"ok","data":{"id":1}}`, nil, true, BodyJSON, ""},
		{"json with charset", 201, "application/json; charset=utf-8", `[1,2]`, nil, true, BodyJSON, ""},
		{"malformed json", 200, "application/json", `{"message":`, nil, true, BodyDecodeError, types.MessageUndecodable},
		{"empty json body", 204, "application/json", ``, nil, true, BodyDecodeError, types.MessageUndecodable},
		{"html error page", 502, "text/html", `<html>Error</html>`, nil, false, BodyText, `<html>Error</html>`},
		{"plain text", 400, "text/plain", `bad`, nil, false, BodyText, `bad`},
		{"empty without type", 204, "", ``, nil, true, BodyEmpty, ""},
		{"read failure", 500, "application/json", ``, errors.New("unexpected EOF"), false, BodyDecodeError, types.MessageUndecodable},
		{"redirect is not ok", 302, "", ``, nil, false, BodyEmpty, ""},
		{"upper bound not ok", 300, "", ``, nil, false, BodyEmpty, ""},
		{"lower bound ok", 200, "", ``, nil, true, BodyEmpty, ""},
		{"unauthorized", 401, "application/json", `{"detail":"expired"}`, nil, false, BodyJSON, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Decode(tt.status, header(tt.ct), []byte(tt.body), tt.readErr)

			assert.Equal(t, tt.wantOK, env.OK)
			assert.Equal(t, tt.status, env.Status)
			assert.Equal(t, tt.wantKind, env.Data.Kind)
			assert.Equal(t, tt.wantText, env.Data.Text)

			again := Decode(tt.status, header(tt.ct), []byte(tt.body), tt.readErr)
			assert.Equal(t, env, again, "decoding must be deterministic")
		})
	}
}

func TestDecode_HTMLErrorPageShape(t *testing.T) {
	env := Decode(502, header("text/html"), []byte("<html>Error</html>"), nil)

	out, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"status":502,"data":{"message":"<html>Error</html>","isText":true}}`, string(out))
}

func TestBody_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body Body
		want string
	}{
		{"empty", Body{Kind: BodyEmpty}, `null`},
		{"json", Body{Kind: BodyJSON, JSON: json.RawMessage(`{"a":1}`)}, `{"a":1}`},
		{"text", Body{Kind: BodyText, Text: "hi"}, `{"message":"hi","isText":true}`},
		{"decode error", Body{Kind: BodyDecodeError, Text: "x"}, `{"message":"x"}`},
		{"network", NetworkFailure().Data, `{"message":"` + types.MessageNetwork + `","isNetworkError":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestBody_MessageAndDecode(t *testing.T) {
	env := Decode(409, header("application/json"), []byte(`{"message":"email already exists","data":null}`), nil)
	assert.Equal(t, "email already exists", env.Data.Message())

	env = Decode(422, header("application/json"), []byte(`{"detail":"title is required"}`), nil)
	assert.Equal(t, "title is required", env.Data.Message())

	env = Decode(200, header("application/json"), []byte(`{"data":{"user_id":7}}`), nil)
	var out struct {
		Data struct {
			UserID int `json:"user_id"`
		} `json:"data"`
	}
	require.NoError(t, env.Data.Decode(&out))
	assert.Equal(t, 7, out.Data.UserID)

	text := Decode(500, header("text/html"), []byte("<p>down</p>"), nil)
	assert.Error(t, text.Data.Decode(&out))
	assert.True(t, text.Data.IsText())
}

func TestEnvelope_Err(t *testing.T) {
	ok := Decode(200, header(""), nil, nil)
	assert.NoError(t, ok.Err())

	notFound := Decode(404, header("application/json"), []byte(`{"message":"post not found"}`), nil)
	notFound.RequestID = "req-1"
	err := notFound.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, "post not found", err.Error())

	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "req-1", apiErr.RequestID)

	assert.ErrorIs(t, NetworkFailure().Err(), types.ErrNetwork)
}

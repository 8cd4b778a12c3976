package board

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// apiResponse is the server's standard {message, data} body
type apiResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// checkEnvelope turns a non-ok envelope into an *Error wrapped with action
func checkEnvelope(env *Envelope, action string) error {
	if err := env.Err(); err != nil {
		return errors.Wrap(err, "failed to "+action)
	}
	return nil
}

// decodeData unmarshals the data field of a successful response into v
func decodeData(env *Envelope, action string, v interface{}) error {
	if err := checkEnvelope(env, action); err != nil {
		return err
	}

	var resp apiResponse
	if err := env.Data.Decode(&resp); err != nil {
		return errors.Wrapf(ErrUnexpectedResponse, "failed to %s: %v", action, err)
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return errors.Wrapf(ErrUnexpectedResponse, "failed to %s: response has no data", action)
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		return errors.Wrapf(ErrUnexpectedResponse, "failed to %s: %v", action, err)
	}
	return nil
}

// decodeItem reads data.<key>, falling back to data itself
func decodeItem(env *Envelope, action, key string, v interface{}) error {
	var data map[string]json.RawMessage
	if err := decodeData(env, action, &data); err != nil {
		// data may be a scalar or array; retry directly
		if errors.Is(err, ErrUnexpectedResponse) {
			return decodeData(env, action, v)
		}
		return err
	}

	raw, ok := data[key]
	if !ok || string(raw) == "null" {
		return decodeData(env, action, v)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(ErrUnexpectedResponse, "failed to %s: %v", action, err)
	}
	return nil
}

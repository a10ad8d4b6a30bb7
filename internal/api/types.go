package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thinkglobalschool/spot-cli/internal/config"
)

// Request is a fully built Spot API call. It is created fresh for every call
// and carries the merged parameter set.
type Request struct {
	HTTPMethod string
	Method     Method
	URL        string
	Params     map[string]string
	Encoding   config.Encoding
}

// HasToken reports whether the request carries an auth_token parameter.
func (r *Request) HasToken() bool {
	_, ok := r.Params[ParamAuthToken]
	return ok
}

// Response is the envelope every Spot endpoint answers with.
type Response struct {
	Status  int             `json:"status"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// OK reports whether the envelope denotes success.
func (r *Response) OK() bool {
	return r.Status >= 0
}

// Decode unmarshals the result into v.
func (r *Response) Decode(v any) error {
	if len(r.Result) == 0 || string(r.Result) == "null" {
		return errors.New("response has no result")
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("unexpected result format: %w", err)
	}
	return nil
}

// UnmarshalJSON accepts status values sent as numbers or numeric strings and
// messages sent as any JSON scalar.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status  json.RawMessage `json:"status"`
		Result  json.RawMessage `json:"result"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Status) == 0 {
		return errors.New("missing status")
	}

	var status json.Number
	if err := json.Unmarshal(raw.Status, &status); err != nil {
		var s string
		if err := json.Unmarshal(raw.Status, &s); err != nil {
			return fmt.Errorf("invalid status: %s", raw.Status)
		}
		status = json.Number(s)
	}
	n, err := status.Int64()
	if err != nil {
		return fmt.Errorf("invalid status: %s", raw.Status)
	}

	r.Status = int(n)
	r.Result = raw.Result
	r.Message = ""
	if len(raw.Message) > 0 && string(raw.Message) != "null" {
		var msg string
		if err := json.Unmarshal(raw.Message, &msg); err != nil {
			msg = string(raw.Message)
		}
		r.Message = msg
	}
	return nil
}

// Profile is the signed-in user as returned by user.get_profile.
type Profile struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
}

// Album is one entry of albums.list.
type Album struct {
	GUID  string `json:"guid"`
	Title string `json:"title"`
}

// UnmarshalJSON accepts numeric or string guids.
func (a *Album) UnmarshalJSON(data []byte) error {
	var raw struct {
		GUID  json.RawMessage `json:"guid"`
		Title string          `json:"title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Title = raw.Title
	a.GUID = ""
	if len(raw.GUID) == 0 || string(raw.GUID) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.GUID, &s); err == nil {
		a.GUID = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.GUID, &n); err != nil {
		return fmt.Errorf("invalid album guid: %s", raw.GUID)
	}
	a.GUID = n.String()
	return nil
}

// NoAlbum is the album id Spot uses for photos posted outside any album.
const NoAlbum = "0"

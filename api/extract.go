package api

import (
	"bytes"
	"encoding/json"
)

// Backend responses vary in shape between deployments: lists arrive bare or
// wrapped in an envelope, and sign-in responses place the token and user
// under different keys. The functions below are the response-adapter
// contract: each applies an ordered list of extraction rules left to right
// and stops at the first match, so shape variance stays out of call sites.

// ExtractList decodes a list response into out. The body may be a bare JSON
// array or an object wrapping the array under one of keys, tried in order.
// When no rule matches, out is set to an empty list.
func ExtractList(raw json.RawMessage, out any, keys ...string) error {
	if isArray(raw) {
		return json.Unmarshal(raw, out)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	for _, k := range keys {
		if v, ok := env[k]; ok && isArray(v) {
			return json.Unmarshal(v, out)
		}
	}
	return json.Unmarshal([]byte("[]"), out)
}

// ExtractToken pulls a bearer credential out of a sign-in response,
// checking token, accessToken, then data.token.
func ExtractToken(raw json.RawMessage) (string, bool) {
	env, err := objectFields(raw)
	if err != nil {
		return "", false
	}

	if t := stringField(env, "token"); t != "" {
		return t, true
	}
	if t := stringField(env, "accessToken"); t != "" {
		return t, true
	}
	if data, ok := env["data"]; ok {
		if nested, err := objectFields(data); err == nil {
			if t := stringField(nested, "token"); t != "" {
				return t, true
			}
		}
	}
	return "", false
}

// ExtractUser pulls the user object out of a sign-in response, checking
// user then data.user. The object is returned raw for the caller to decode.
func ExtractUser(raw json.RawMessage) (json.RawMessage, bool) {
	env, err := objectFields(raw)
	if err != nil {
		return nil, false
	}

	if u, ok := env["user"]; ok && isObject(u) {
		return u, true
	}
	if data, ok := env["data"]; ok {
		if nested, err := objectFields(data); err == nil {
			if u, ok := nested["user"]; ok && isObject(u) {
				return u, true
			}
		}
	}
	return nil, false
}

func objectFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var env map[string]json.RawMessage
	err := json.Unmarshal(raw, &env)
	return env, err
}

func stringField(env map[string]json.RawMessage, key string) string {
	v, ok := env[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func isArray(raw json.RawMessage) bool {
	t := bytes.TrimLeft(raw, " \t\r\n")
	return len(t) > 0 && t[0] == '['
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimLeft(raw, " \t\r\n")
	return len(t) > 0 && t[0] == '{'
}

package helper

import (
	"errors"

	json "github.com/bytedance/sonic"
)

var ErrInvalidJSON = errors.New("response body is not valid JSON")

// ExtractContent returns choices[0].message.content from a chat completion
// response body. The field must exist and be a JSON string.
func ExtractContent(body []byte) (string, error) {
	if !json.Valid(body) {
		return "", ErrInvalidJSON
	}
	node, err := json.Get(body, "choices", 0, "message", "content")
	if err != nil {
		return "", err
	}
	return node.StrictString()
}

package utils

import (
	"fmt"

	json "github.com/bytedance/sonic"
)

// JsonString encodes obj for log output.
func JsonString(obj any) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("encode %T: %w", obj, err)
	}
	return string(data), nil
}

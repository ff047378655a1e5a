package core

import (
	"encoding/json"
	"fmt"
)

// FlexString accepts either a JSON string or a JSON number. The APIs are
// not consistent about which one they send for ids.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		err := json.Unmarshal(data, &str)
		if err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	err := json.Unmarshal(data, &num)
	if err != nil {
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
	*s = FlexString(num.String())
	return nil
}

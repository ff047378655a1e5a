package hotellook

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrNoLocation = errors.New("you should specify the location type: iata, city_id, or hotel_id")

// MissingKeyError lists the required config keys that were absent.
type MissingKeyError struct {
	Keys []string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing config keys: %s", strings.Join(e.Keys, ", "))
}

// Location is where to search, only one kind is used per search.
type Location struct {
	// config key and signature parameter name: iata, city_id or hotel_id
	Key string
	// query parameter name: iata, cityId or hotelId
	Param string
	Value string
}

// in order of precedence
var locationKinds = []struct {
	key   string
	param string
}{
	{"iata", "iata"},
	{"city_id", "cityId"},
	{"hotel_id", "hotelId"},
}

// Page selects which slice of the results to fetch and how it is sorted.
type Page struct {
	Limit      string
	Offset     string
	RoomsCount string
	SortBy     string
	SortAsc    string
}

var DefaultPage = Page{
	Limit:      "0",
	Offset:     "0",
	RoomsCount: "0",
	SortBy:     "price",
	SortAsc:    "1",
}

type Config struct {
	Token  string
	Marker string

	Lang           string
	Currency       string
	WaitForResults string
	CheckIn        string
	CheckOut       string
	AdultsCount    string
	ChildrenCount  string
	ChildAge       string
	// looked up when not given in the config
	CustomerIp string
	Location   Location

	// seconds to wait between starting the search and fetching results
	Sleep int
	Page  Page
}

// scalar renders a config value the way it goes into signatures and urls.
func scalar(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	}
	return "", false
}

var requiredKeys = []string{
	"token",
	"marker",
	"lang",
	"currency",
	"wait_for_results",
	"check_in",
	"check_out",
	"adults_count",
	"children_count",
	"child_age",
	"sleep",
}

// ParseConfig reads a hotel search config from its flat key/value form
// (what config.json decodes to).
func ParseConfig(raw map[string]any) (Config, error) {
	values := map[string]string{}
	var missing []string
	var invalid []string
	for _, key := range requiredKeys {
		value, ok := raw[key]
		if !ok || value == nil {
			missing = append(missing, key)
			continue
		}
		str, ok := scalar(value)
		if !ok {
			invalid = append(invalid, key)
			continue
		}
		values[key] = str
	}
	if len(missing) > 0 {
		return Config{}, &MissingKeyError{Keys: missing}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return Config{}, fmt.Errorf("config keys must be strings, numbers or booleans: %s", strings.Join(invalid, ", "))
	}

	location, err := parseLocation(raw)
	if err != nil {
		return Config{}, err
	}

	sleep, err := strconv.Atoi(values["sleep"])
	if err != nil || sleep < 0 {
		return Config{}, fmt.Errorf("sleep must be a non-negative whole number of seconds, got %q", values["sleep"])
	}

	cfg := Config{
		Token:          values["token"],
		Marker:         values["marker"],
		Lang:           values["lang"],
		Currency:       values["currency"],
		WaitForResults: values["wait_for_results"],
		CheckIn:        values["check_in"],
		CheckOut:       values["check_out"],
		AdultsCount:    values["adults_count"],
		ChildrenCount:  values["children_count"],
		ChildAge:       values["child_age"],
		Location:       location,
		Sleep:          sleep,
		Page:           DefaultPage,
	}
	if ip, ok := scalar(raw["customer_ip"]); ok {
		cfg.CustomerIp = ip
	}

	optional := []struct {
		key string
		out *string
	}{
		{"limit", &cfg.Page.Limit},
		{"offset", &cfg.Page.Offset},
		{"rooms_count", &cfg.Page.RoomsCount},
		{"sort_by", &cfg.Page.SortBy},
		{"sort_asc", &cfg.Page.SortAsc},
	}
	for _, o := range optional {
		if str, ok := scalar(raw[o.key]); ok {
			*o.out = str
		}
	}

	return cfg, nil
}

func parseLocation(raw map[string]any) (Location, error) {
	for _, kind := range locationKinds {
		value, ok := raw[kind.key]
		if !ok || value == nil {
			continue
		}
		str, ok := scalar(value)
		if !ok {
			return Location{}, fmt.Errorf("config key %s must be a string or a number", kind.key)
		}
		return Location{Key: kind.key, Param: kind.param, Value: str}, nil
	}
	return Location{}, ErrNoLocation
}

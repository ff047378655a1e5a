package signature

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestMD5(t *testing.T) {
	require.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", MD5(""))
	require.Equal(t, "900150983cd24fb0d6963f7d28e17f72", MD5("abc"))
}

func TestSign(t *testing.T) {
	signed := Sign("a", "b", "c")
	require.Equal(t, "a:b:c", signed.String)
	require.Equal(t, MD5("a:b:c"), signed.MD5)

	require.Equal(t, Signed{String: "", MD5: MD5("")}, Sign())
}

func TestByName(t *testing.T) {
	values := ByName(map[string]string{
		"lang":             "en",
		"currency":         "USD",
		"wait_for_results": "0",
		"check_in":         "2025-06-05",
		"check_out":        "2025-06-12",
		"adults_count":     "2",
		"children_count":   "1",
		"child_age":        "7",
		"customer_ip":      "203.0.113.7",
		"city_id":          "12153",
	})

	expected := []string{
		"2",           // adults_count
		"2025-06-05",  // check_in
		"2025-06-12",  // check_out
		"7",           // child_age
		"1",           // children_count
		"12153",       // city_id
		"USD",         // currency
		"203.0.113.7", // customer_ip
		"en",          // lang
		"0",           // wait_for_results
	}
	if diff := cmp.Diff(expected, values); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

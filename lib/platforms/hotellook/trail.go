package hotellook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Trail records how a search was signed and sent so that a rejected
// signature can be checked by hand. It is written out as request.txt.
type Trail struct {
	InitSignatureString string
	InitSignatureMD5    string
	InitUrl             string
	InitResponse        string

	ResultsSignatureString string
	ResultsSignatureMD5    string
	ResultsUrl             string
	ResultsStatus          string
}

func (t *Trail) recordStart(start Start) {
	t.InitSignatureString = start.Signature.String
	t.InitSignatureMD5 = start.Signature.MD5
	t.InitUrl = start.Url
	t.InitResponse = compact(start.Response)
}

func (t *Trail) recordResult(result Result) {
	t.ResultsSignatureString = result.Signature.String
	t.ResultsSignatureMD5 = result.Signature.MD5
	t.ResultsUrl = result.Url
	t.ResultsStatus = result.Status
}

func compact(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	err := json.Compact(&buf, raw)
	if err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

const trailSeparator = "======================"

type trailSection struct {
	title string
	value string
}

// Render writes the trail. The results half is left out when the search
// never got as far as requesting results.
func (t Trail) Render(w io.Writer) error {
	sections := []trailSection{
		{"Initialization signature string", t.InitSignatureString},
		{"Initialization signature MD5", t.InitSignatureMD5},
		{"Initialization request", t.InitUrl},
		{"Initialization response", t.InitResponse},
	}
	err := writeSections(w, sections)
	if err != nil {
		return err
	}
	if t.ResultsUrl == "" {
		return nil
	}

	_, err = fmt.Fprintf(w, "%s\n\n", trailSeparator)
	if err != nil {
		return err
	}
	return writeSections(w, []trailSection{
		{"Results signature string", t.ResultsSignatureString},
		{"Results signature MD5", t.ResultsSignatureMD5},
		{"Results request", t.ResultsUrl},
		{"Results response status", t.ResultsStatus},
	})
}

func writeSections(w io.Writer, sections []trailSection) error {
	for _, s := range sections {
		_, err := fmt.Fprintf(w, "%s:\n%s\n\n", s.title, s.value)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t Trail) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

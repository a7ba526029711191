package restyutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

func writeBody(out *bytes.Buffer, req *http.Request) {
	if req == nil || req.GetBody == nil {
		return
	}
	body, err := req.GetBody()
	if err != nil {
		fmt.Fprintf(out, "<unreadable body: %v>\n", err)
		return
	}
	defer body.Close()
	_, err = io.Copy(out, body)
	if err != nil {
		fmt.Fprintf(out, "<unreadable body: %v>\n", err)
	}
}

// dumpExchange renders a request and its response in a plain text, roughly
// HTTP/1.1 wire shaped form, headers sorted by name.
func dumpExchange(res *resty.Response) string {
	var out bytes.Buffer

	fmt.Fprintf(&out, "> %s %s\n", res.Request.Method, res.Request.URL)
	if raw := res.Request.RawRequest; raw != nil {
		raw.Header.Write(&out)
		out.WriteString("\n")
		writeBody(&out, raw)
	}

	fmt.Fprintf(&out, "\n< %s", res.Status())
	if res.RawResponse != nil {
		if location, err := res.RawResponse.Location(); err == nil {
			fmt.Fprintf(&out, " -> %s", location)
		}
	}
	out.WriteString("\n")
	res.Header().Write(&out)
	out.WriteString("\n")
	out.Write(res.Body())

	return out.String()
}

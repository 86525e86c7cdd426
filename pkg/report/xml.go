package report

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/praveenmunagapati/cppcheck/internal/version"
)

// XMLHeader returns the opening of a structured run for the given schema
// version. Emitted exactly once per run, before any diagnostic.
func XMLHeader(xmlVersion int) string {
	if xmlVersion >= 2 {
		return fmt.Sprintf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
			"<results version=\"2\">\n"+
			"  <cppcheck version=\"%s\"/>\n"+
			"  <errors>", version.Version)
	}
	return "<?xml version=\"1.0\"?>\n<results>"
}

// XMLFooter returns the closing of a structured run. Emitted exactly once
// per run, after all diagnostics.
func XMLFooter(xmlVersion int) string {
	if xmlVersion >= 2 {
		return "  </errors>\n</results>"
	}
	return "</results>"
}

// XML renders the record as a single <error> element in the requested
// schema version. Version 1 flattens to the primary location; version 2
// nests all locations.
func (r Record) XML(verbose bool, xmlVersion int) string {
	doc := etree.NewDocument()
	e := doc.CreateElement("error")

	if xmlVersion >= 2 {
		e.CreateAttr("id", r.ID)
		e.CreateAttr("severity", string(r.Severity))
		e.CreateAttr("msg", r.Message)
		text := r.Message
		if r.Verbose != "" {
			text = r.Verbose
		}
		e.CreateAttr("verbose", text)
		for i := len(r.Locations) - 1; i >= 0; i-- {
			loc := e.CreateElement("location")
			loc.CreateAttr("file", r.Locations[i].File)
			loc.CreateAttr("line", strconv.Itoa(r.Locations[i].Line))
		}
	} else {
		if len(r.Locations) > 0 {
			primary := r.Locations[len(r.Locations)-1]
			e.CreateAttr("file", primary.File)
			e.CreateAttr("line", strconv.Itoa(primary.Line))
		}
		e.CreateAttr("id", r.ID)
		e.CreateAttr("severity", string(r.Severity))
		text := r.Message
		if verbose && r.Verbose != "" {
			text = r.Verbose
		}
		e.CreateAttr("msg", text)
	}

	doc.Indent(0)
	out, err := doc.WriteToString()
	if err != nil {
		// etree only fails on writer errors; a string writer has none.
		return ""
	}
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return out
}

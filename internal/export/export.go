package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"eitsapi/internal/eits"
	"eitsapi/internal/telemetry"
)

const (
	report_export_save = "export.save"
)

// JSON writes v indented by four spaces without escaping HTML or non-ascii
// characters, descriptions may carry markup.
func JSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	return encoder.Encode(v)
}

func MarshalJSON(v any) ([]byte, error) {
	var buffer bytes.Buffer
	err := JSON(&buffer, v)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// CSVHeader is the column order of CSV exports, one row per measure.
var CSVHeader = []string{
	"catalog_version",
	"module_valid_from",
	"module_valid_to",
	"module_code",
	"module_title",
	"module_group",
	"module_purpose",
	"module_responsibility",
	"module_limits",
	"module_additional_info",
	"measure_code",
	"measure_title",
	"measure_group",
	"measure_description",
	"measure_assignees",
	"measure_security_code",
	"measure_risks",
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// CSV flattens a snapshot to one row per measure. Modules without measures
// produce no rows.
func CSV(w io.Writer, snapshot eits.Snapshot) error {
	writer := csv.NewWriter(w)
	err := writer.Write(CSVHeader)
	if err != nil {
		return err
	}

	// snapshots built by hand may only know their year
	version := snapshot.Version
	if version == "" {
		version = fmt.Sprint(snapshot.Year)
	}
	for _, module := range snapshot.Modules {
		for _, measure := range module.Measures {
			err := writer.Write([]string{
				version,
				snapshot.ValidFrom,
				snapshot.ValidTo,
				module.Code,
				module.Name,
				module.Category,
				escapeNewlines(module.Description),
				escapeNewlines(module.Responsibility),
				escapeNewlines(module.Limits),
				escapeNewlines(module.AdditionalInfo),
				measure.Code,
				measure.Title,
				measure.Group,
				escapeNewlines(measure.Description),
				strings.Join(measure.Assignees, ", "),
				measure.SecurityCode,
				strings.Join(measure.RiskCodes, ", "),
			})
			if err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func save(filename string, tel telemetry.API, write func(w io.Writer) error) error {
	tel.ReportInfo("saving output", "file", filename)

	var buffer bytes.Buffer
	err := write(&buffer)
	if err != nil {
		tel.ReportBroken(report_export_save, err, filename)
		return err
	}
	// written in one go so a failed serialization never leaves a partial file behind
	err = os.WriteFile(filename, buffer.Bytes(), 0644)
	if err != nil {
		tel.ReportBroken(report_export_save, err, filename)
		return err
	}
	return nil
}

func SaveJSON(filename string, v any, tel telemetry.API) error {
	return save(filename, tel, func(w io.Writer) error {
		return JSON(w, v)
	})
}

func SaveCSV(filename string, snapshot eits.Snapshot, tel telemetry.API) error {
	return save(filename, tel, func(w io.Writer) error {
		return CSV(w, snapshot)
	})
}

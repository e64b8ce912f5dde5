package batch

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// ReportEntryName is the single report entry every archive carries.
const ReportEntryName = "validation_report.csv"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// BuildArchive bundles every Completed item into a ZIP, entries ordered by
// input row, plus the validation report covering all items. Binary artifacts
// are stored decoded; text artifacts verbatim.
func BuildArchive(items []*Item) ([]byte, error) {
	ordered := make([]*Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, it := range ordered {
		if it.Status != StatusCompleted {
			continue
		}
		content, ext, err := entryContent(it)
		if err != nil {
			return nil, err
		}
		w, err := zw.Create(entryName(it, ext))
		if err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
	}

	report, err := buildReport(ordered)
	if err != nil {
		return nil, err
	}
	w, err := zw.Create(ReportEntryName)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	if _, err := w.Write(report); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return buf.Bytes(), nil
}

func entryContent(it *Item) ([]byte, string, error) {
	if it.Binary {
		decoded, err := base64.StdEncoding.DecodeString(it.Artifact)
		if err != nil {
			return nil, "", fmt.Errorf("archive: item %s artifact is not valid base64: %w", it.ID, err)
		}
		return decoded, "png", nil
	}
	return []byte(it.Artifact), "txt", nil
}

func entryName(it *Item, ext string) string {
	base := it.Label
	if base == "" {
		base = it.ID
	}
	base = unsafeNameChars.ReplaceAllString(base, "_")
	return fmt.Sprintf("%03d_%s.%s", it.Seq+1, base, ext)
}

// buildReport renders the id/label/status/size table for every item,
// whatever its terminal status.
func buildReport(ordered []*Item) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write([]string{"id", "label", "status", "size_bytes"}); err != nil {
		return nil, fmt.Errorf("archive: report: %w", err)
	}
	for _, it := range ordered {
		size := 0
		if it.Status == StatusCompleted {
			if it.Binary {
				if decoded, err := base64.StdEncoding.DecodeString(it.Artifact); err == nil {
					size = len(decoded)
				}
			} else {
				size = len(it.Artifact)
			}
		}
		rec := []string{it.ID, it.Label, it.Status.String(), strconv.Itoa(size)}
		if err := cw.Write(rec); err != nil {
			return nil, fmt.Errorf("archive: report: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("archive: report: %w", err)
	}
	return buf.Bytes(), nil
}

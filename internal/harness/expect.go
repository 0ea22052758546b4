package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
)

// checkExpectations compares a result with exp and returns one message per
// mismatch.
func checkExpectations(r *Result, exp Expectation) []string {
	if exp.Error != "" {
		if r.Err == nil {
			return []string{fmt.Sprintf("expected %s, command succeeded", exp.Error)}
		}
		var errs []string
		if code := queryerr.CodeOf(r.Err); code != exp.Error {
			errs = append(errs, fmt.Sprintf("expected %s, got %s: %v", exp.Error, code, r.Err))
		}
		if exp.Message != "" && !strings.Contains(r.Err.Error(), exp.Message) {
			errs = append(errs, fmt.Sprintf("error %q does not contain %q", r.Err.Error(), exp.Message))
		}
		return errs
	}

	if r.Err != nil {
		return []string{fmt.Sprintf("unexpected %s: %v", r.Err.Code, r.Err)}
	}

	res := r.Command
	var errs []string
	if exp.Serials != nil {
		if got := res.Serials(); !slices.Equal(got, exp.Serials) {
			errs = append(errs, fmt.Sprintf("serials: expected %s, got %s", hexList(exp.Serials), hexList(got)))
		}
	}
	if exp.Columns != nil && !slices.Equal(res.Columns, exp.Columns) {
		errs = append(errs, fmt.Sprintf("columns: expected %q, got %q", exp.Columns, res.Columns))
	}
	if exp.Stages != nil && !slices.Equal(res.Stages, exp.Stages) {
		errs = append(errs, fmt.Sprintf("stages: expected %q, got %q", exp.Stages, res.Stages))
	}
	if exp.Mode != "" && res.Mode != exp.Mode {
		errs = append(errs, fmt.Sprintf("mode: expected %s, got %s", exp.Mode, res.Mode))
	}
	return errs
}

func hexList(serials []int64) string {
	parts := make([]string, len(serials))
	for i, s := range serials {
		parts[i] = fmt.Sprintf("0x%X", s)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

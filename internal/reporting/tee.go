// -- internal/reporting/tee.go --
package reporting

import "errors"

type teeReporter []Reporter

// Tee returns a Reporter that writes every result to each of reporters in
// order. Close closes all of them and joins their errors.
func Tee(reporters ...Reporter) Reporter {
	return teeReporter(reporters)
}

func (t teeReporter) Write(result *Result) error {
	for _, r := range t {
		if err := r.Write(result); err != nil {
			return err
		}
	}
	return nil
}

func (t teeReporter) Close() error {
	var errs []error
	for _, r := range t {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}

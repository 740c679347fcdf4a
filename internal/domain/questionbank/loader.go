package questionbank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/worker"
)

// LoadReport describes the outcome of a bank load.
type LoadReport struct {
	Loaded     int
	Unresolved []string // ids of multiple choice questions kept with a raw answer
	Rejected   []error  // populated in quarantine mode only
}

// DecodeRecords reads a bank export: either a bare JSON array of records or
// an object with a "questions" array.
func DecodeRecords(r io.Reader) ([]RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidBank)
	}

	if data[0] == '[' {
		var records []RawRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBank, err)
		}
		return records, nil
	}

	var wrapper struct {
		Questions []RawRecord `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBank, err)
	}
	if wrapper.Questions == nil {
		return nil, fmt.Errorf(`%w: expected an array or an object with "questions"`, ErrInvalidBank)
	}
	return wrapper.Questions, nil
}

// Load decodes and normalizes a bank export.
func (n *Normalizer) Load(r io.Reader) (*QuestionBank, LoadReport, error) {
	records, err := DecodeRecords(r)
	if err != nil {
		return nil, LoadReport{}, err
	}
	return n.Build(records)
}

// Build normalizes records into a bank. Record preparation runs on the
// worker pool; marks are drawn afterwards in record order so a seeded source
// gives the same bank every time.
func (n *Normalizer) Build(records []RawRecord) (*QuestionBank, LoadReport, error) {
	type prepared struct {
		q   Question
		err error
	}

	out := worker.Map(n.workers, records, func(rec RawRecord) prepared {
		q, err := n.prepare(rec)
		return prepared{q: q, err: err}
	})

	bank := New()
	var report LoadReport
	var errs []error
	for _, p := range out {
		if p.err != nil {
			errs = append(errs, p.err)
			continue
		}

		n.assignMarks(&p.q)
		if err := bank.Add(p.q); err != nil {
			errs = append(errs, &MalformedRecordError{RecordID: p.q.ID, Reason: err.Error(), Err: err})
			continue
		}
		if p.q.AnswerUnresolved {
			report.Unresolved = append(report.Unresolved, p.q.ID)
		}
	}
	report.Loaded = bank.Len()

	if len(errs) > 0 {
		if !n.quarantine {
			return nil, report, errors.Join(errs...)
		}
		for _, err := range errs {
			n.logger.Warn("record quarantined", "error", err)
		}
		report.Rejected = errs
	}

	n.logger.Info("bank normalized",
		"bank_id", bank.ID,
		"loaded", report.Loaded,
		"unresolved", len(report.Unresolved),
		"rejected", len(report.Rejected),
	)
	return bank, report, nil
}

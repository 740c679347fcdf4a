package questionbank

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/markup"
)

// MarksSource supplies the draw used when a record carries no marks.
// *rand.Rand satisfies it.
type MarksSource interface {
	Float64() float64
}

var (
	typeAnnotation = regexp.MustCompile(`(?i)\(\s*type\s*:\s*(?:numeric|range)\s*\)`)
	relativeAsset  = regexp.MustCompile(`((?:src|href)\s*=\s*["'])\./`)
	labelReference = regexp.MustCompile(`(?i)^\(?\s*(?:option\s*)?([a-f])\s*\)?$`)
)

// Normalizer converts raw bank records into Questions. A Normalizer is safe
// for concurrent use by Load; Normalize and assignMarks share the marks
// source and must be serialized by the caller.
type Normalizer struct {
	validate   *validator.Validate
	marks      MarksSource
	assetRoot  string
	strict     bool
	workers    int
	quarantine bool
	logger     *slog.Logger
}

type NormalizerOption func(*Normalizer)

func WithRand(src MarksSource) NormalizerOption {
	return func(n *Normalizer) { n.marks = src }
}

// WithStrictLabels rejects multiple choice records whose answer matches no
// option instead of keeping the raw answer.
func WithStrictLabels() NormalizerOption {
	return func(n *Normalizer) { n.strict = true }
}

func WithAssetRoot(root string) NormalizerOption {
	return func(n *Normalizer) {
		if root == "" {
			root = "/"
		}
		if !strings.HasSuffix(root, "/") {
			root += "/"
		}
		n.assetRoot = root
	}
}

func WithLogger(logger *slog.Logger) NormalizerOption {
	return func(n *Normalizer) { n.logger = logger }
}

func WithWorkers(count int) NormalizerOption {
	return func(n *Normalizer) { n.workers = count }
}

// WithQuarantine makes Load drop malformed records and list them in the
// report instead of failing.
func WithQuarantine() NormalizerOption {
	return func(n *Normalizer) { n.quarantine = true }
}

func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		validate:  newRecordValidator(),
		marks:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		assetRoot: "/",
		workers:   1,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts a single record.
func (n *Normalizer) Normalize(rec RawRecord) (Question, error) {
	q, err := n.prepare(rec)
	if err != nil {
		return Question{}, err
	}
	n.assignMarks(&q)
	return q, nil
}

// prepare does everything except the random marks draw. It touches no
// mutable state, so Load runs it on the worker pool.
func (n *Normalizer) prepare(rec RawRecord) (Question, error) {
	recordID := rec.ID.String()
	if err := n.validate.Struct(rec); err != nil {
		return Question{}, malformed(recordID, "%s", describeValidation(err))
	}

	kind := rawTypeTags[strings.ToUpper(strings.TrimSpace(rec.Type))]
	if strings.Contains(rec.Answer, "Numeric") || strings.Contains(rec.Answer, "Range") {
		kind = NumericAnswer
	}
	answer := strings.TrimSpace(typeAnnotation.ReplaceAllString(rec.Answer, ""))

	q := Question{
		ID:          recordID,
		Kind:        kind,
		Body:        n.rewriteAssets(rec.Body),
		Marks:       parseMarks(rec.Marks.String()),
		SourceGroup: strings.TrimSpace(rec.Source),
		ImagePaths:  n.rewriteImagePaths(rec.Images),
	}
	if q.SourceGroup == "" {
		q.SourceGroup = UnknownSource
	}

	switch kind {
	case MultipleChoice:
		if len(rec.Options) == 0 {
			return Question{}, malformed(recordID, "multiple choice record has no options")
		}
		q.Options = make([]Option, len(rec.Options))
		for i, o := range rec.Options {
			q.Options[i] = Option{
				Label:   LabelAt(i),
				Content: n.rewriteAssets(strings.TrimSpace(o.HTML)),
			}
		}

		answer = n.rewriteAssets(answer)
		if label, ok := resolveLabel(q.Options, answer); ok {
			q.CorrectAnswer = label
			break
		}
		if n.strict {
			return Question{}, &MalformedRecordError{
				RecordID: recordID,
				Reason:   "answer matches no option",
				Err:      ErrUnresolvedAnswerLabel,
			}
		}
		q.CorrectAnswer = answer
		q.AnswerUnresolved = true
		n.logger.Warn("answer does not resolve to an option label",
			"question_id", recordID,
			"source", q.SourceGroup,
		)

	case NumericAnswer:
		key, err := canonicalNumericKey(markup.StripTags(answer))
		if err != nil {
			return Question{}, &MalformedRecordError{
				RecordID: recordID,
				Reason:   "numeric answer " + strconv.Quote(answer) + " is not a number or range",
				Err:      err,
			}
		}
		q.CorrectAnswer = key
	}

	return q, nil
}

// assignMarks draws 1 mark with probability 0.6 and 2 otherwise when the
// record supplied none.
func (n *Normalizer) assignMarks(q *Question) {
	if q.Marks > 0 {
		return
	}
	if n.marks.Float64() > 0.4 {
		q.Marks = 1
	} else {
		q.Marks = 2
	}
}

// resolveLabel maps a raw answer to an option label: an exact content match
// first, then the first option in source order whose content the answer
// contains, then an explicit label reference such as "C" or "Option C".
func resolveLabel(options []Option, answer string) (string, bool) {
	target := strings.TrimSpace(answer)
	if target == "" {
		return "", false
	}

	for _, o := range options {
		if o.Content == target {
			return o.Label, true
		}
	}

	for _, o := range options {
		if o.Content != "" && strings.Contains(target, o.Content) {
			return o.Label, true
		}
	}

	if m := labelReference.FindStringSubmatch(markup.StripTags(target)); m != nil {
		label := strings.ToUpper(m[1])
		for _, o := range options {
			if o.Label == label {
				return label, true
			}
		}
	}
	return "", false
}

func parseMarks(raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

func (n *Normalizer) rewriteAssets(s string) string {
	return relativeAsset.ReplaceAllString(s, "${1}"+strings.ReplaceAll(n.assetRoot, "$", "$$"))
}

func (n *Normalizer) rewriteImagePaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "./") {
			p = n.assetRoot + strings.TrimPrefix(p, "./")
		}
		out[i] = p
	}
	return out
}

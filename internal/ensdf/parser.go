package ensdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// progressEvery is the line interval of parse progress log entries.
const progressEvery = 200000

// Stats counts what the parser saw across all Parse and Patch calls.
type Stats struct {
	Lines                  int
	Datasets               int
	Records                int
	FieldErrors            int
	UnknownRecords         int
	IgnoredContinuations   int
	ReplacedNormalizations int
	PatchReplaced          int
	PatchAppended          int
	PatchSecondRemoved     int
}

// Parser reads ENSDF card streams into a Registry.
type Parser struct {
	log      *zap.Logger
	registry *Registry
	stats    Stats

	// Per-stream state.
	current  *Dataset
	pending  bool
	idOpen   bool
	patching bool
	origin   string
	name     string
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger for diagnostics and progress.
func WithLogger(log *zap.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// WithRegistry makes the parser file datasets into an existing registry.
func WithRegistry(r *Registry) Option {
	return func(p *Parser) {
		if r != nil {
			p.registry = r
		}
	}
}

// NewParser returns a parser with an empty registry.
func NewParser(opts ...Option) *Parser {
	p := &Parser{log: zap.NewNop(), registry: NewRegistry()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Registry returns the registry the parser fills.
func (p *Parser) Registry() *Registry { return p.registry }

// Stats returns the counters accumulated so far.
func (p *Parser) Stats() Stats { return p.stats }

// Parse reads a full ENSDF stream. Datasets are filed by the registry's
// initial-parse rules. Only read errors are returned; malformed cards are
// logged and counted.
func (p *Parser) Parse(name string, r io.Reader, origin string) error {
	p.patching = false
	return p.read(name, r, origin)
}

// Patch reads a stream of replacement datasets and merges each into the
// registry by the patch rules.
func (p *Parser) Patch(name string, r io.Reader, origin string) error {
	p.patching = true
	defer func() { p.patching = false }()
	return p.read(name, r, origin)
}

func (p *Parser) read(name string, r io.Reader, origin string) error {
	p.current, p.pending, p.idOpen = nil, false, false
	p.name, p.origin = name, origin
	p.log.Info("parsing ENSDF", zap.String("name", name), zap.String("origin", origin), zap.Bool("patch", p.patching))

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		p.stats.Lines++
		p.line(strings.TrimSuffix(sc.Text(), "\r"), ln)
		if ln%progressEvery == 0 {
			p.log.Info("parse progress", zap.String("name", name), zap.Int("lines", ln))
		}
	}
	p.closeDataset()
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s at line %d: %w", name, ln+1, err)
	}
	p.log.Info("parsing done", zap.String("name", name), zap.Int("lines", ln))
	return nil
}

func (p *Parser) line(content string, ln int) {
	blank := strings.TrimSpace(content) == ""
	if p.current == nil {
		if !blank {
			p.openDataset(content, ln)
		}
		return
	}
	if blank {
		p.closeDataset()
		return
	}

	if isCommentCard(content) {
		p.register()
		p.comment(content, ln)
		return
	}

	code, code2 := recordCodes(content)
	kind, err := dispatch(code, code2, content, p.idOpen)
	if err != nil {
		p.stats.UnknownRecords++
		p.warn("unknown record", ln, content, err)
		return
	}
	if kind == kindIdentificationContinuation {
		p.current.ID.extend(content)
		p.current.Kind = Classify(p.current.DSID())
		p.idOpen = p.current.ID.Continues()
		return
	}
	p.idOpen = false
	p.register()

	if kind == KindComment {
		p.comment(content, ln)
		return
	}
	if isContinuationCard(content) {
		if !p.current.continueLast(kind, content) {
			p.stats.IgnoredContinuations++
			p.log.Debug("continuation ignored", zap.Int("line", ln), zap.Stringer("kind", kind))
		}
		return
	}

	rec, err := parseRecord(kind, content, ln, NormContext{Normalization: p.current.Normalization})
	if err != nil {
		var fe *FieldError
		if !errors.As(err, &fe) {
			p.stats.UnknownRecords++
			p.warn("record not parsed", ln, content, err)
			return
		}
		p.stats.FieldErrors += countFieldErrors(err)
		p.warn("malformed field", ln, content, err)
	}
	p.stats.Records++
	if p.current.add(rec) == replacedNormalization {
		p.stats.ReplacedNormalizations++
		p.warn("normalization record replaced", ln, content, nil)
	}
}

func (p *Parser) comment(content string, ln int) {
	if isContinuationCard(content) && p.current.continueComment(content) {
		return
	}
	rec, _ := parseRecord(KindComment, content, ln, NormContext{})
	p.stats.Records++
	p.current.add(rec)
}

func (p *Parser) openDataset(content string, ln int) {
	id, err := parseRecord(KindIdentification, content, ln, NormContext{})
	if err != nil {
		p.warn("malformed identification", ln, content, err)
	}
	ident := id.(*Identification)
	p.current = NewDataset(ident, p.origin)
	p.pending = true
	p.idOpen = ident.Continues()
	p.stats.Datasets++
}

// register files the current dataset once its identification is complete.
func (p *Parser) register() {
	if !p.pending {
		return
	}
	p.pending = false
	d := p.current
	n := p.registry.entry(d.Key(), d.Line)
	if !p.patching {
		n.set(d)
		return
	}
	res := n.replace(d)
	fields := []zap.Field{
		zap.String("nuclide", n.NUCID),
		zap.String("dsid", d.DSID()),
		zap.Stringer("action", res.Action),
	}
	switch res.Action {
	case PatchReplaced:
		p.stats.PatchReplaced++
		fields = append(fields, zap.String("replaced", res.Replaced))
	case PatchAppended:
		p.stats.PatchAppended++
	}
	if res.SecondRemoved != "" {
		p.stats.PatchSecondRemoved++
		fields = append(fields, zap.String("second_removed", res.SecondRemoved))
	}
	p.log.Info("patch merged", fields...)
}

func (p *Parser) closeDataset() {
	if p.current != nil {
		p.register()
	}
	p.current, p.pending, p.idOpen = nil, false, false
}

// warn logs a card diagnostic. Reaction datasets are noisy and not used
// downstream, so their diagnostics go to debug.
func (p *Parser) warn(msg string, ln int, content string, err error) {
	fields := []zap.Field{
		zap.String("name", p.name),
		zap.Int("line", ln),
		zap.String("card", content),
	}
	if p.current != nil {
		fields = append(fields, zap.String("dsid", p.current.DSID()))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if p.current != nil && p.current.Kind == ReactionData {
		p.log.Debug(msg, fields...)
		return
	}
	p.log.Warn(msg, fields...)
}

func countFieldErrors(err error) int {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return len(j.Unwrap())
	}
	return 1
}

// Package csense reconciles declarations with their documentation comments.
//
// Analysis of a declaration goes through stages:
//
//   - eligibility: synthetic declarations, accessors and non-visible declarations are skipped
//   - documentation: a declaration without valid documentation gets a single finding and nothing else
//   - references: every cref of the documentation must resolve
//   - signature: param and typeparam sections are matched against parameters and type parameters
//   - return: returns and value sections are matched against the declared result
//   - exceptions: exception types escaping the body must be documented
//   - quality: sections must say something beyond the name of what they document
package csense

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/sirkon/csense/internal/cir"
	"github.com/sirkon/csense/internal/config"
	"github.com/sirkon/csense/internal/crefs"
	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/docxml"
	"github.com/sirkon/csense/internal/fixes"
	"github.com/sirkon/csense/internal/quality"
	"github.com/sirkon/csense/internal/report"
	"github.com/sirkon/csense/internal/symbols"
)

// Host gives access to declaration bodies and to the symbol table.
type Host interface {
	crefs.Table

	// Body returns body constructs of the declaration, nil if it has no body.
	Body(d *symbols.Decl) cir.Body
}

// Unit is a compilation unit as supplied by the host.
type Unit interface {
	Host

	// ID identifies the unit. Options are memoized per unit ID.
	ID() string

	// Declarations lists declarations to consider.
	Declarations() []*symbols.Decl

	// Options returns raw options of the unit.
	Options() map[string]string
}

// Analyzer runs analysis over compilation units.
// Its zero value is ready to use and runs with no concurrency limit.
type Analyzer struct {
	// Jobs limits the number of declarations analyzed concurrently. Zero means no limit.
	Jobs int

	// Overrides take precedence over options of analyzed units.
	Overrides map[string]string

	cache config.Cache
}

// Run analyzes all declarations of the unit concurrently and returns findings in a deterministic order.
func (a *Analyzer) Run(ctx context.Context, unit Unit) ([]report.Finding, error) {
	var rep report.Reporter
	err := a.each(ctx, unit, func(_ *symbols.Decl, fs []report.Finding) {
		for _, f := range fs {
			rep.Report(f)
		}
	})
	if err != nil {
		return nil, err
	}

	return rep.Sorted(), nil
}

// each analyzes declarations of the unit concurrently and passes their findings to collect.
// collect is called concurrently.
func (a *Analyzer) each(ctx context.Context, unit Unit, collect func(d *symbols.Decl, fs []report.Finding)) error {
	opts := a.cache.Resolve(unit.ID(), config.Merge(unit.Options(), a.Overrides))

	g, ctx := errgroup.WithContext(ctx)
	if a.Jobs > 0 {
		g.SetLimit(a.Jobs)
	}

	for _, d := range unit.Declarations() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			fs, err := Analyze(ctx, unit, d, opts)
			if err != nil {
				return fmt.Errorf("analyze %s at %s: %w", d.Name, d.Primary(), err)
			}
			if len(fs) > 0 {
				collect(d, fs)
			}
			return nil
		})
	}

	return g.Wait()
}

// Analyze analyzes a single declaration. The result depends on arguments only.
// Errors come from context cancellation solely.
func Analyze(ctx context.Context, host Host, decl *symbols.Decl, opts *config.Options) ([]report.Finding, error) {
	if opts == nil {
		opts = config.Default()
	}
	if !IsEligible(decl, opts) {
		return nil, nil
	}

	a := &analysis{
		host:  host,
		decl:  decl,
		opts:  opts,
		judge: quality.New(opts.LowQualityTerms),
	}

	block, ok := docxml.Parse(decl.Doc)
	if !ok && decl.Doc != "" {
		slog.Debug("malformed documentation", slog.String("decl", decl.Name), slog.String("location", decl.Primary().String()))
	}
	a.block = block

	if !ok || !block.HasValid() {
		a.rep.Stage(report.StageDocumentation).Report(
			csrules.MissingDocumentation(),
			decl.Primary(),
			a.props(docxml.TagSummary, ""),
			decl.Name,
		)
		return a.findings(), nil
	}

	a.checkRefs()
	if block.HasAutoValid() {
		return a.findings(), nil
	}

	a.reconcileSignature(typeParamFamily, decl.TypeParams())
	a.reconcileSignature(paramFamily, decl.Params())
	a.classifyReturn()
	if err := a.reconcileExceptions(ctx); err != nil {
		return nil, err
	}
	a.checkSummary()

	return a.findings(), nil
}

// analysis is a state of a single declaration analysis.
type analysis struct {
	host  Host
	decl  *symbols.Decl
	block *docxml.Block
	opts  *config.Options
	judge quality.Judge
	rep   report.Reporter
}

func (a *analysis) checkSummary() {
	for _, s := range a.block.Tagged(docxml.TagSummary) {
		if a.judge.IsLow(s, a.decl.Name, docxml.TagSummary) {
			a.lowQuality(docxml.TagSummary, a.decl.Name)
		}
	}
}

// lowQuality reports a low quality section attributed to the declaration.
func (a *analysis) lowQuality(tag, name string) {
	a.rep.Stage(report.StageQuality).Report(
		csrules.LowQuality(),
		a.decl.Primary(),
		a.props(tag, name),
		tag, name,
	)
}

// props builds finding properties used by automated fixes.
func (a *analysis) props(tag, name string) map[string]string {
	res := map[string]string{
		report.PropTag:   tag,
		report.PropOrder: strconv.Itoa(fixes.OrderKey(tag, name, a.decl)),
	}
	if name != "" {
		res[report.PropName] = name
	}

	return res
}

// findings applies configured severities to collected findings.
func (a *analysis) findings() []report.Finding {
	var res []report.Finding
	for _, f := range a.rep.Findings() {
		sev, enabled := a.opts.Severity(f.Rule)
		if !enabled {
			continue
		}
		f.Severity = sev
		res = append(res, f)
	}
	report.Sort(res)

	return res
}

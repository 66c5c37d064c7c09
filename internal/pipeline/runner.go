// Package pipeline runs netlist parsing, classification, rule resolution and
// sheet mapping as one unit of work.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/layoutguide/internal/classification"
	"github.com/Veraticus/layoutguide/internal/config"
	"github.com/Veraticus/layoutguide/internal/engine"
	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/netlist"
	"github.com/Veraticus/layoutguide/internal/service"
	"github.com/Veraticus/layoutguide/internal/sheets"
	"github.com/Veraticus/layoutguide/internal/template"
)

// Stage names a pipeline step reported to observers.
type Stage string

// Pipeline stages in execution order.
const (
	StageParse    Stage = "parse"
	StageClassify Stage = "classify"
	StageRules    Stage = "rules"
	StageWrite    Stage = "write"
)

// Stages lists every stage Run reports, in order.
var Stages = []Stage{StageParse, StageClassify, StageRules, StageWrite}

// Request describes one netlist to turn into a layout guide.
type Request struct {
	// Writer stores the sheet; nil writes an xlsx file.
	Writer       service.GuideWriter
	Observer     func(Stage)
	NetlistPath  string
	OutputPath   string
	TemplatePath string
}

// Result is everything one run produced.
type Result struct {
	StartedAt       time.Time
	FinishedAt      time.Time
	Classifications map[string]model.Classification
	Layout          map[string]model.LayoutInfo
	NetlistPath     string
	OutputPath      string
	ConfigSource    string
	NetNames        []string
	Rows            []model.OutputRow
	Summary         []model.CategoryCount
	MissingColumns  []string
	TemplateValid   bool
	Plain           bool
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Run converts the result into a history record, nets in output order.
func (r *Result) Run() *model.Run {
	run := &model.Run{
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		NetlistPath:  r.NetlistPath,
		OutputPath:   r.OutputPath,
		ConfigSource: r.ConfigSource,
		NetCount:     len(r.NetNames),
	}
	for _, info := range template.SortedNets(r.Layout) {
		run.Nets = append(run.Nets, model.RunNet{
			NetName:     info.NetName,
			Category:    info.Category,
			SignalType:  info.SignalType,
			RuleMatched: info.RuleMatched,
			Impedance:   info.Impedance,
			Priority:    info.Priority,
		})
	}
	return run
}

// Runner holds the components built from one configuration snapshot.
type Runner struct {
	cfg        *model.Configuration
	parser     *netlist.Parser
	classifier *classification.Classifier
	engine     *engine.Engine
	mapper     *template.Mapper
}

// New validates cfg and builds the pipeline components from it.
func New(cfg *model.Configuration) (*Runner, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	parser, err := netlist.NewParserFromSettings(cfg.Parser)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:        cfg,
		parser:     parser,
		classifier: classification.NewFromConfig(cfg),
		engine:     engine.NewFromConfig(cfg),
		mapper:     template.NewMapper(cfg.Template),
	}, nil
}

// Classifier returns the runner's classifier.
func (r *Runner) Classifier() *classification.Classifier {
	return r.classifier
}

// Engine returns the runner's rule engine.
func (r *Runner) Engine() *engine.Engine {
	return r.engine
}

// Parser returns the runner's netlist parser.
func (r *Runner) Parser() *netlist.Parser {
	return r.parser
}

// Run parses the netlist at req.NetlistPath and writes its layout guide.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	notify := func(stage Stage) {
		if req.Observer != nil {
			req.Observer(stage)
		}
	}

	result := &Result{
		StartedAt:    time.Now(),
		NetlistPath:  req.NetlistPath,
		ConfigSource: r.cfg.Source,
	}
	slog.Info("Starting layout guide generation", "netlist", req.NetlistPath, "config", r.cfg.Source)

	names, err := r.parser.ParseFile(req.NetlistPath)
	if err != nil {
		return nil, err
	}
	result.NetNames = names
	notify(StageParse)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.process(result)
	notify(StageClassify)
	notify(StageRules)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := req.Writer
	if w == nil {
		w = sheets.NewXLSXWriter(nil)
	}
	mapped, err := r.mapper.MapToTemplate(ctx, result.Layout, template.MapRequest{
		OutputPath:   req.OutputPath,
		TemplatePath: req.TemplatePath,
	}, w)
	if err != nil {
		return nil, fmt.Errorf("failed to write layout guide: %w", err)
	}
	notify(StageWrite)

	result.OutputPath = mapped.Sheet.Path
	result.Rows = mapped.Sheet.Rows
	result.TemplateValid = mapped.TemplateValid
	result.MissingColumns = mapped.MissingColumns
	result.Plain = mapped.Plain
	result.FinishedAt = time.Now()

	slog.Info("Layout guide generated",
		"output", result.OutputPath,
		"nets", len(result.NetNames),
		"duration", result.Duration())
	return result, nil
}

// Process runs the pure stages over netlist text without touching the filesystem.
func (r *Runner) Process(text string) *Result {
	result := &Result{
		StartedAt:    time.Now(),
		ConfigSource: r.cfg.Source,
		NetNames:     r.parser.Parse(text),
	}
	r.process(result)
	result.Rows = r.mapper.BuildRows(result.Layout)
	result.FinishedAt = time.Now()
	return result
}

func (r *Runner) process(result *Result) {
	result.Classifications = r.classifier.Classify(result.NetNames)
	result.Summary = classification.SortedSummary(result.Classifications)
	classification.LogSummary(result.Classifications)
	result.Layout = r.engine.Apply(result.Classifications)
}

// Run builds a runner for cfg and processes one request.
func Run(ctx context.Context, cfg *model.Configuration, req Request) (*Result, error) {
	runner, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, req)
}

// Process builds a runner for cfg and processes netlist text.
func Process(cfg *model.Configuration, text string) (*Result, error) {
	runner, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return runner.Process(text), nil
}

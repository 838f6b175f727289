package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wonny/lsbacktest/internal/audit"
	"github.com/wonny/lsbacktest/internal/backtest"
	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/internal/report"
	"github.com/wonny/lsbacktest/internal/s0_data"
	"github.com/wonny/lsbacktest/internal/strategyconfig"
	"github.com/wonny/lsbacktest/pkg/config"
	"github.com/wonny/lsbacktest/pkg/database"
	"github.com/wonny/lsbacktest/pkg/logger"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "롱숏 랭킹 백테스트",
	Long: `일별 가격 패널로 횡단면 순위 롱숏 전략을 시뮬레이션합니다.

매일 전 종목을 당일 수익률로 순위를 매기고
rank < K 이면 숏, 그 외는 롱 포지션을 다음 날 수익률에 적용합니다.

설정 우선순위: 환경변수 < --config YAML < 플래그

Example:
  go run ./cmd/lsbt backtest run --source data/financial_data.csv
  go run ./cmd/lsbt backtest run --source sqlite://data/stock_data.db --from 2020-01-01
  go run ./cmd/lsbt backtest export --source prices.csv > equity.csv`,
}

// runOptions holds the flag values shared by run and export
type runOptions struct {
	source        string
	kind          string
	sheet         string
	from          string
	to            string
	dateColumn    bool
	threshold     int
	riskFree      float64
	annualization float64
	minCoverage   float64

	// run only
	csvPath   string
	xlsxPath  string
	chartPath string
	save      bool
}

var (
	runOpts    runOptions
	exportOpts runOptions

	backtestRunCmd = &cobra.Command{
		Use:   "run",
		Short: "백테스트 실행",
		Long: `가격 패널을 읽어 백테스트를 실행하고 결과를 출력합니다.

Flags:
  --source         가격 소스 (.csv, .xlsx, sqlite://path, postgres)
  --threshold      랭크 임계값 K (기본: 38)
  --rf             일 무위험 수익률 (기본: 0)
  --annualization  연환산 계수 (기본: 2386)
  --csv/--xlsx     에쿼티 커브 내보내기
  --chart          누적 수익률 PNG
  --save           결과를 audit.backtest_runs에 저장

Example:
  go run ./cmd/lsbt backtest run --source data/financial_data.csv
  go run ./cmd/lsbt backtest run --source prices.xlsx --date-column --chart equity.png
  go run ./cmd/lsbt backtest run --config strategy.yaml --save`,
		SilenceUsage: true,
		RunE:         runBacktest,
	}

	backtestExportCmd = &cobra.Command{
		Use:   "export",
		Short: "에쿼티 커브 CSV를 stdout으로 출력",
		Long: `백테스트를 실행하고 에쿼티 커브만 CSV로 stdout에 씁니다.
(date, strategy_return, cumulative_return, drawdown)

Example:
  go run ./cmd/lsbt backtest export --source prices.csv > equity.csv`,
		SilenceUsage: true,
		RunE:         runExport,
	}

	backtestShowCmd = &cobra.Command{
		Use:   "show <run-id>",
		Short: "저장된 백테스트 결과 조회",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(backtestRunCmd)
	backtestCmd.AddCommand(backtestExportCmd)
	backtestCmd.AddCommand(backtestShowCmd)

	registerSourceFlags(backtestRunCmd.Flags(), &runOpts)
	backtestRunCmd.Flags().StringVar(&runOpts.csvPath, "csv", "", "에쿼티 커브 CSV 경로")
	backtestRunCmd.Flags().StringVar(&runOpts.xlsxPath, "xlsx", "", "요약+시계열 XLSX 경로")
	backtestRunCmd.Flags().StringVar(&runOpts.chartPath, "chart", "", "누적 수익률 PNG 경로")
	backtestRunCmd.Flags().BoolVar(&runOpts.save, "save", false, "결과를 DB에 저장 (DATABASE_URL 필요)")

	registerSourceFlags(backtestExportCmd.Flags(), &exportOpts)
}

// registerSourceFlags registers the flags that override strategy settings
func registerSourceFlags(fs *pflag.FlagSet, o *runOptions) {
	fs.StringVar(&o.source, "source", "", "가격 소스 경로 또는 DSN")
	fs.StringVar(&o.kind, "kind", "", "소스 종류 (csv|xlsx|sqlite|postgres, 기본: 경로로 판단)")
	fs.StringVar(&o.sheet, "sheet", "", "XLSX 시트 이름 (기본: 첫 시트)")
	fs.StringVar(&o.from, "from", "", "시작 날짜 (YYYY-MM-DD, DB 소스)")
	fs.StringVar(&o.to, "to", "", "종료 날짜 (YYYY-MM-DD, DB 소스)")
	fs.BoolVar(&o.dateColumn, "date-column", false, "첫 번째 열이 날짜")
	fs.IntVar(&o.threshold, "threshold", 38, "랭크 임계값 K (rank < K → 숏)")
	fs.Float64Var(&o.riskFree, "rf", 0, "일 무위험 수익률")
	fs.Float64Var(&o.annualization, "annualization", 2386, "연환산 계수")
	fs.Float64Var(&o.minCoverage, "min-coverage", 0, "종목별 최소 커버리지 (0~1, 경고만)")
}

// baseStrategy builds the strategy defaults from the environment
func baseStrategy(cfg *config.Config) *strategyconfig.Config {
	base := strategyconfig.Default()
	base.Source.Path = cfg.Backtest.SourcePath
	base.Source.HasDateColumn = cfg.Backtest.DateColumn
	base.Signals.RankThreshold = cfg.Backtest.RankThreshold
	base.Performance.DailyRiskFreeRate = cfg.Backtest.DailyRiskFreeRate
	base.Performance.AnnualizationFactor = cfg.Backtest.AnnualizationFactor
	return base
}

// applyOverrides copies explicitly set flags onto the strategy
func applyOverrides(fs *pflag.FlagSet, o *runOptions, s *strategyconfig.Config) {
	if fs.Changed("source") {
		s.Source.Path = o.source
	}
	if fs.Changed("kind") {
		s.Source.Kind = o.kind
	}
	if fs.Changed("sheet") {
		s.Source.Sheet = o.sheet
	}
	if fs.Changed("from") {
		s.Source.From = o.from
	}
	if fs.Changed("to") {
		s.Source.To = o.to
	}
	if fs.Changed("date-column") {
		s.Source.HasDateColumn = o.dateColumn
	}
	if fs.Changed("threshold") {
		s.Signals.RankThreshold = o.threshold
	}
	if fs.Changed("rf") {
		s.Performance.DailyRiskFreeRate = o.riskFree
	}
	if fs.Changed("annualization") {
		s.Performance.AnnualizationFactor = o.annualization
	}
	if fs.Changed("min-coverage") {
		s.Quality.MinCoverage = o.minCoverage
	}
}

// resolveStrategy layers environment < YAML file < flags and validates the result
func resolveStrategy(cfg *config.Config, path string, fs *pflag.FlagSet, o *runOptions) (*strategyconfig.Config, []byte, error) {
	strategy := baseStrategy(cfg)
	var raw []byte

	if path != "" {
		loaded, data, err := strategyconfig.LoadOnto(path, strategy)
		if err != nil {
			return nil, nil, fmt.Errorf("load strategy %s: %w", path, err)
		}
		strategy, raw = loaded, data
	}

	applyOverrides(fs, o, strategy)

	if err := strategyconfig.Validate(strategy); err != nil {
		return nil, nil, fmt.Errorf("invalid strategy: %w", err)
	}
	if strategy.Source.Path == "" && strategy.Source.Kind != strategyconfig.KindPostgres {
		return nil, nil, fmt.Errorf("no price source: set --source, source.path or LSBT_SOURCE_PATH")
	}

	return strategy, raw, nil
}

// session is one resolved backtest invocation
type session struct {
	cfg      *config.Config
	strategy *strategyconfig.Config
	raw      []byte
	log      *logger.Logger
	db       *database.DB
}

func newSession(cmd *cobra.Command, o *runOptions) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	strategy, raw, err := resolveStrategy(cfg, configFile, cmd.Flags(), o)
	if err != nil {
		return nil, err
	}

	for _, w := range strategyconfig.Warn(strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	return &session{cfg: cfg, strategy: strategy, raw: raw, log: log}, nil
}

// connect opens the database once per session
func (s *session) connect(ctx context.Context) (*database.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := database.New(ctx, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	s.db = db
	return db, nil
}

func (s *session) close() {
	if s.db != nil {
		s.db.Close()
	}
}

// execute builds the loader and runs the engine
func (s *session) execute(ctx context.Context) (*backtest.Result, error) {
	src := s.strategy.Source

	kind := src.Kind
	if kind == "" {
		kind = s0_data.DetectKind(src.Path)
	}

	opts := s0_data.SourceOptions{
		Path:       src.Path,
		Kind:       kind,
		DateColumn: src.HasDateColumn,
		Sheet:      src.Sheet,
		From:       src.From,
		To:         src.To,
	}

	var pool *pgxpool.Pool
	if kind == strategyconfig.KindPostgres {
		// 소스가 DSN이면 DATABASE_URL 대신 사용
		if strings.Contains(src.Path, "://") {
			s.cfg.Database.URL = src.Path
		}
		db, err := s.connect(ctx)
		if err != nil {
			return nil, err
		}
		pool = db.Pool
	}

	loader, err := s0_data.NewLoader(opts, pool, s.log)
	if err != nil {
		return nil, err
	}

	engine := backtest.NewEngine(loader, s.log)

	return engine.Run(ctx, backtest.Config{
		StrategyID:          s.strategy.Meta.StrategyID,
		SourcePath:          src.Path,
		RankThreshold:       s.strategy.Signals.RankThreshold,
		DailyRiskFreeRate:   s.strategy.Performance.DailyRiskFreeRate,
		AnnualizationFactor: s.strategy.Performance.AnnualizationFactor,
		MinCoverage:         s.strategy.Quality.MinCoverage,
	})
}

func runBacktest(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, &runOpts)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()

	result, runErr := s.execute(ctx)
	if result == nil {
		return fmt.Errorf("backtest failed: %w", runErr)
	}

	rep := result.Report()
	report.NewReporter(cmd.OutOrStdout()).Print(rep)

	if err := writeExports(rep, &runOpts); err != nil {
		return err
	}

	if runOpts.save {
		if err := s.saveRun(ctx, result); err != nil {
			return err
		}
	}

	if runErr != nil {
		return describeFailure(runErr)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, &exportOpts)
	if err != nil {
		return err
	}
	defer s.close()

	result, runErr := s.execute(cmd.Context())
	if result == nil {
		return fmt.Errorf("backtest failed: %w", runErr)
	}

	if err := report.WriteCSV(cmd.OutOrStdout(), result.EquityCurve); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	if runErr != nil {
		return describeFailure(runErr)
	}
	return nil
}

// writeExports writes the optional export files of a run
func writeExports(rep *report.Report, o *runOptions) error {
	if o.csvPath != "" {
		f, err := os.Create(o.csvPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", o.csvPath, err)
		}
		werr := report.WriteCSV(f, rep.Equity)
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("write %s: %w", o.csvPath, werr)
		}
		if cerr != nil {
			return fmt.Errorf("close %s: %w", o.csvPath, cerr)
		}
		PrintSuccess(fmt.Sprintf("Equity curve written to %s", o.csvPath))
	}

	if o.xlsxPath != "" {
		if err := report.WriteXLSX(o.xlsxPath, rep); err != nil {
			return fmt.Errorf("write %s: %w", o.xlsxPath, err)
		}
		PrintSuccess(fmt.Sprintf("Workbook written to %s", o.xlsxPath))
	}

	if o.chartPath != "" {
		if rep.NoTrades() {
			PrintWarning("No equity curve to chart")
		} else {
			png, err := report.RenderEquityChart(rep)
			if err != nil {
				return err
			}
			if err := os.WriteFile(o.chartPath, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", o.chartPath, err)
			}
			PrintSuccess(fmt.Sprintf("Chart written to %s", o.chartPath))
		}
	}

	return nil
}

// saveRun persists the final summary of a run
func (s *session) saveRun(ctx context.Context, result *backtest.Result) error {
	if result.NoTrades {
		PrintWarning("No trades executed, nothing to save")
		return nil
	}

	db, err := s.connect(ctx)
	if err != nil {
		return err
	}

	snapshot, err := strategyconfig.NewDecisionSnapshot(s.strategy, s.raw)
	if err != nil {
		return fmt.Errorf("snapshot strategy: %w", err)
	}

	repo := audit.NewRunRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	rec := &audit.RunRecord{
		RunID:         fmt.Sprintf("run_%s", snapshot.CreatedAt.Format("20060102_150405")),
		StrategyID:    snapshot.StrategyID,
		ConfigHash:    snapshot.ConfigHash,
		SourcePath:    result.Config.SourcePath,
		RankThreshold: result.Config.RankThreshold,
		NumTickers:    result.NumTickers,
		Summary:       *result.Summary,
		SharpeDefined: !math.IsNaN(result.Summary.SharpeRatio) && !math.IsInf(result.Summary.SharpeRatio, 0),
		CreatedAt:     snapshot.CreatedAt,
	}
	if err := repo.SaveRun(ctx, rec); err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Run saved as %s", rec.RunID))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	rec, err := audit.NewRunRepository(db.Pool).GetRun(ctx, args[0])
	if err != nil {
		return err
	}

	sharpe := "undefined"
	if rec.SharpeDefined {
		sharpe = fmt.Sprintf("%.6g", rec.Summary.SharpeRatio)
	}

	PrintSeparator()
	PrintKeyValue("Run ID", rec.RunID, 16)
	PrintKeyValue("Strategy", rec.StrategyID, 16)
	PrintKeyValue("Config Hash", rec.ConfigHash[:min(12, len(rec.ConfigHash))], 16)
	PrintKeyValue("Source", rec.SourcePath, 16)
	PrintKeyValue("Threshold", fmt.Sprintf("%d", rec.RankThreshold), 16)
	PrintKeyValue("Tickers", fmt.Sprintf("%d", rec.NumTickers), 16)
	PrintKeyValue("Days", fmt.Sprintf("%d", rec.Summary.Days), 16)
	PrintKeyValue("Cumulative", fmt.Sprintf("%.6g", rec.Summary.FinalCumulativeReturn), 16)
	PrintKeyValue("Sharpe Ratio", sharpe, 16)
	PrintKeyValue("Max Drawdown", fmt.Sprintf("%.6g", rec.Summary.MaxDrawdown), 16)
	PrintKeyValue("Created", rec.CreatedAt.Format(time.RFC3339), 16)
	PrintSeparator()

	return nil
}

// describeFailure prefixes the run error with its category
func describeFailure(err error) error {
	switch {
	case errors.Is(err, contracts.ErrLoadFailure):
		return fmt.Errorf("❌ price panel could not be loaded: %w", err)
	case errors.Is(err, contracts.ErrDegenerateVolatility):
		return fmt.Errorf("❌ sharpe ratio undefined: %w", err)
	default:
		return fmt.Errorf("❌ backtest failed: %w", err)
	}
}

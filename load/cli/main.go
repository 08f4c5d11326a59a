package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultRate        = 5
	defaultDuration    = 60 * time.Second
	defaultTeamName    = "backend"
	defaultResultsFile = "load/artifacts/results.bin"
)

var resultsFile = defaultResultsFile

func main() {
	var (
		baseURL  = flag.String("url", defaultBaseURL, "Base URL сервиса")
		rate     = flag.Int("rate", defaultRate, "Запросов в секунду")
		duration = flag.Duration("duration", defaultDuration, "Длительность теста (например, 60s)")
		teamName = flag.String("team", defaultTeamName, "Имя команды для запросов метрик")
		warmOnly = flag.Bool("warm-only", false, "Только прогрев кэша (один запрос метрик)")
		report   = flag.Bool("report", false, "Показать отчёт из сохранённых результатов")
		plot     = flag.Bool("plot", false, "Сгенерировать HTML график из сохранённых результатов")
	)
	flag.Parse()

	if *report {
		showReport()
		return
	}

	if *plot {
		generatePlot()
		return
	}

	if *warmOnly {
		if err := warmCache(*baseURL, *teamName); err != nil {
			log.Fatalf("Ошибка при прогреве кэша: %v", err)
		}
		return
	}

	// Полный цикл: прогрев + нагрузочное тестирование
	fmt.Println("=== Нагрузочное тестирование с Vegeta ===")
	fmt.Printf("URL: %s\n", *baseURL)
	fmt.Printf("Rate: %d req/s\n", *rate)
	fmt.Printf("Duration: %s\n", *duration)
	fmt.Println()

	fmt.Println("1. Прогрев кэша метрик...")
	if err := warmCache(*baseURL, *teamName); err != nil {
		log.Fatalf("Ошибка при прогреве кэша: %v", err)
	}

	fmt.Println()
	fmt.Println("2. Запуск нагрузочного тестирования...")
	if err := runLoadTest(*baseURL, *rate, *duration, *teamName); err != nil {
		log.Fatalf("Ошибка при нагрузочном тестировании: %v", err)
	}

	fmt.Println()
	fmt.Println("=== Тестирование завершено ===")
	fmt.Println("Для детального анализа выполните:")
	fmt.Printf("  go run ./load/cli -report\n")
	fmt.Printf("  go run ./load/cli -plot\n")
}

// warmCache выполняет первый дорогой запрос метрик, чтобы нагрузка мерила
// работу кэша, а не холодную загрузку из внешнего API.
func warmCache(baseURL, teamName string) error {
	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: "GET",
		URL:    fmt.Sprintf("%s/api/metrics/%s", baseURL, teamName),
	})

	attacker := vegeta.NewAttacker(vegeta.Timeout(2 * time.Minute))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: 1, Per: time.Second}, time.Second, "warmup") {
		metrics.Add(res)
	}
	metrics.Close()

	if metrics.StatusCodes["200"] == 0 {
		return fmt.Errorf("не удалось прогреть кэш: статусы %v", metrics.StatusCodes)
	}

	fmt.Printf("Кэш прогрет для команды '%s'\n", teamName)
	return nil
}

// runLoadTest запускает нагрузочное тестирование
func runLoadTest(baseURL string, rate int, duration time.Duration, teamName string) error {
	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %d", rate)
	}
	targeter := newMetricsTargeter(baseURL, teamName)

	workers := uint64(rate)
	attacker := vegeta.NewAttacker(
		vegeta.Timeout(30*time.Second),
		vegeta.Workers(workers),
	)

	var metrics vegeta.Metrics
	rateLimit := vegeta.Rate{Freq: rate, Per: time.Second}
	results := attacker.Attack(targeter, rateLimit, duration, "load-test")

	var allResults []vegeta.Result
	for res := range results {
		metrics.Add(res)
		allResults = append(allResults, *res)
	}
	metrics.Close()

	if err := saveResults(allResults); err != nil {
		return fmt.Errorf("сохранить результаты: %w", err)
	}

	reporter := vegeta.NewTextReporter(&metrics)
	if err := reporter(os.Stdout); err != nil {
		return fmt.Errorf("сгенерировать отчёт: %w", err)
	}

	return nil
}

// newMetricsTargeter чередует читающие эндпоинты сервиса.
func newMetricsTargeter(baseURL, teamName string) vegeta.Targeter {
	paths := []string{
		fmt.Sprintf("/api/metrics/%s", teamName),
		"/api/teams/metrics",
		"/api/cache/stats",
		"/api/users/global",
	}

	var i int
	return func(t *vegeta.Target) error {
		path := paths[i%len(paths)]
		i++

		*t = vegeta.Target{
			Method: "GET",
			URL:    baseURL + path,
			Header: http.Header{"Accept": []string{"application/json"}},
		}

		return nil
	}
}

// saveResults сохраняет результаты в бинарный файл
func saveResults(results []vegeta.Result) error {
	if err := os.MkdirAll(filepath.Dir(resultsFile), 0o755); err != nil {
		return fmt.Errorf("создать директорию: %w", err)
	}

	file, err := os.Create(resultsFile)
	if err != nil {
		return fmt.Errorf("создать файл: %w", err)
	}
	defer file.Close()

	encoder := vegeta.NewEncoder(file)
	for i := range results {
		if err := encoder.Encode(&results[i]); err != nil {
			return fmt.Errorf("записать результат: %w", err)
		}
	}

	fmt.Printf("Результаты сохранены в %s\n", resultsFile)
	return nil
}

// showReport показывает отчёт из сохранённых результатов
func showReport() {
	if err := renderReport(os.Stdout, resultsFile); err != nil {
		log.Fatalf("Не удалось построить отчёт: %v", err)
	}
}

func renderReport(out io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open results: %w", err)
	}
	defer file.Close()

	decoder := vegeta.NewDecoder(file)
	var metrics vegeta.Metrics

	for {
		var res vegeta.Result
		if err := decoder.Decode(&res); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("decode result: %w", err)
		}
		metrics.Add(&res)
	}
	metrics.Close()

	reporter := vegeta.NewTextReporter(&metrics)
	if err := reporter(out); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// generatePlot генерирует HTML график из сохранённых результатов
// Использует CLI утилиту vegeta для генерации графика
func generatePlot() {
	writePlotInstructions(os.Stdout)
}

func writePlotInstructions(out io.Writer) {
	fmt.Fprintln(out, "Для генерации HTML графика используйте CLI утилиту vegeta:")
	fmt.Fprintf(out, "  vegeta plot %s > load/artifacts/plot.html\n", resultsFile)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Установка CLI утилиты:")
	fmt.Fprintln(out, "  go install github.com/tsenart/vegeta/v12@latest")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Или используйте сохранённые результаты для анализа через другие инструменты.")
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/terraincognita07/ovumcy-insights/internal/analytics"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
)

// analyzeInput is the offline history file read by the analyze command.
type analyzeInput struct {
	PeriodStarts      []string             `json:"period_starts"`
	PeriodDuration    int                  `json:"period_duration"`
	LutealPhaseDays   int                  `json:"luteal_phase_days"`
	Age               int                  `json:"age"`
	Goal              string               `json:"goal"`
	TemperatureSource string               `json:"temperature_source"`
	Temperatures      []analyzeTemperature `json:"temperatures"`
	Now               string               `json:"now"`
}

type analyzeTemperature struct {
	Date    string  `json:"date"`
	Celsius float64 `json:"celsius"`
	Source  string  `json:"source"`
}

// RunAnalyzeCommand runs the prediction engine over a JSON history without
// touching the database and writes the prediction as indented JSON.
func RunAnalyzeCommand(in io.Reader, out io.Writer, now time.Time) error {
	var raw analyzeInput
	decoder := json.NewDecoder(in)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}

	input, err := raw.predictionInput(now)
	if err != nil {
		return err
	}
	prediction, err := analytics.Predict(input)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(prediction)
}

func (raw analyzeInput) predictionInput(now time.Time) (analytics.PredictionInput, error) {
	goal, ok := analytics.ParseUserGoal(raw.Goal)
	if !ok {
		return analytics.PredictionInput{}, fmt.Errorf("unknown goal %q", raw.Goal)
	}
	source, ok := analytics.ParseMeasurementSource(raw.TemperatureSource)
	if !ok {
		return analytics.PredictionInput{}, fmt.Errorf("unknown temperature source %q", raw.TemperatureSource)
	}

	input := analytics.PredictionInput{
		PeriodDuration:    raw.PeriodDuration,
		LutealPhaseDays:   raw.LutealPhaseDays,
		Age:               raw.Age,
		Goal:              goal,
		TemperatureSource: source,
		Now:               services.CalendarDay(now, time.UTC),
	}
	if raw.Now != "" {
		day, err := services.ParseDay(raw.Now)
		if err != nil {
			return analytics.PredictionInput{}, fmt.Errorf("parse now %q: %w", raw.Now, err)
		}
		input.Now = day
	}

	for _, value := range raw.PeriodStarts {
		day, err := services.ParseDay(value)
		if err != nil {
			return analytics.PredictionInput{}, fmt.Errorf("parse period start %q: %w", value, err)
		}
		input.PeriodStarts = append(input.PeriodStarts, day)
	}
	for _, reading := range raw.Temperatures {
		day, err := services.ParseDay(reading.Date)
		if err != nil {
			return analytics.PredictionInput{}, fmt.Errorf("parse temperature date %q: %w", reading.Date, err)
		}
		readingSource := analytics.MeasurementSource("")
		if reading.Source != "" {
			parsed, ok := analytics.ParseMeasurementSource(reading.Source)
			if !ok {
				return analytics.PredictionInput{}, fmt.Errorf("unknown temperature source %q on %s", reading.Source, reading.Date)
			}
			readingSource = parsed
		}
		input.Temperatures = append(input.Temperatures, analytics.TemperatureReading{Date: day, Celsius: reading.Celsius, Source: readingSource})
	}
	return input, nil
}

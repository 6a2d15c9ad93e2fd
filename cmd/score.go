package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hxxtsxxh/lumos.ai/internal/curve"
	"github.com/hxxtsxxh/lumos.ai/internal/estimate"
	"github.com/hxxtsxxh/lumos.ai/internal/scoring"
)

// scoreOutput is the JSON emitted for one scored place.
type scoreOutput struct {
	Index         int                    `json:"safety_index"`
	RiskTag       string                 `json:"risk_level"`
	CrimeLevel    string                 `json:"crime_level"`
	Score         float64                `json:"score"`
	ModelScore    float64                `json:"model_score"`
	FormulaScore  float64                `json:"formula_score"`
	Blend         string                 `json:"blend"`
	RatePer100k   float64                `json:"crime_rate_per_100k"`
	RateSource    string                 `json:"rate_source"`
	AgencyMatch   string                 `json:"agency_match"`
	AgencyName    string                 `json:"agency_name,omitempty"`
	IncidentTypes []scoring.IncidentType `json:"incident_types,omitempty"`
	HourlyRisk    []float64              `json:"hourly_risk"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a place for safety",
	Long: `Score a place using the precomputed profile snapshot, the trained
model (falling back to a constant when the artifact is missing) and the
deterministic formula. Emits JSON on stdout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("command", "score"))

		if err := cfg.Validate("score"); err != nil {
			return err
		}

		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		city, _ := cmd.Flags().GetString("city")
		region, _ := cmd.Flags().GetString("state")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		population, _ := cmd.Flags().GetInt("population")
		regionRate, _ := cmd.Flags().GetFloat64("region-rate")
		hour, _ := cmd.Flags().GetInt("hour")
		travelers, _ := cmd.Flags().GetInt("travelers")
		gender, _ := cmd.Flags().GetString("gender")
		weather, _ := cmd.Flags().GetFloat64("weather")
		duration, _ := cmd.Flags().GetInt("duration")
		college, _ := cmd.Flags().GetBool("college")
		urban, _ := cmd.Flags().GetBool("urban")
		poi, _ := cmd.Flags().GetFloat64("poi-density")
		events, _ := cmd.Flags().GetInt("live-events")
		liveIncidents, _ := cmd.Flags().GetInt("live-incidents")
		moon, _ := cmd.Flags().GetFloat64("moon")

		now := time.Now()
		if hour < 0 || hour > 23 {
			hour = now.Hour()
		}
		weekday := now.Weekday()

		est := estimate.LocalRate(snap, city, region, regionRate, population)
		match := est.Agency
		if !match.Resolved() {
			match = snap.Resolve(city, region)
		}

		ctx := &scoring.Context{
			Lat:              lat,
			Lng:              lng,
			CrimeRatePer100k: est.RatePer100k,
			Population:       population,
			Hour:             hour,
			Weekday:          weekday,
			Month:            now.Month(),
			IsWeekend:        weekday == time.Saturday || weekday == time.Sunday,
			Travelers:        travelers,
			Gender:           gender,
			WeatherSeverity:  weather,
			DurationMinutes:  duration,
			IsCollegeTown:    college,
			IsUrban:          urban,
			POIDensity:       poi,
			LiveEvents:       events,
			LiveIncidents:    liveIncidents,
			MoonIllumination: moon,
			Agency:           match,
		}
		if rp, ok := snap.Region(region); ok {
			ctx.Region = rp
		}

		engine := scoring.NewEngine(scoring.LoadModel(cfg.Scorer.ModelPath))
		result := engine.Score(ctx)

		log.Info("scored",
			zap.String("city", city),
			zap.Int("index", result.Index),
			zap.String("blend", result.Blend.String()),
			zap.String("rate_source", est.Source),
		)

		out := scoreOutput{
			Index:        result.Index,
			RiskTag:      scoring.RiskTag(result.Index),
			CrimeLevel:   scoring.CrimeLevel(est.RatePer100k),
			Score:        result.Score,
			ModelScore:   result.Model,
			FormulaScore: result.Formula,
			Blend:        result.Blend.String(),
			RatePer100k:  est.RatePer100k,
			RateSource:   est.Source,
			AgencyMatch:  match.Source.String(),
			HourlyRisk:   curve.Hourly(snap, region, float64(100-result.Index)),
		}
		if match.Resolved() {
			out.AgencyName = match.Profile.Name
			out.IncidentTypes = scoring.PredictIncidentTypes(match.Profile, hour, est.RatePer100k)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	scoreCmd.Flags().String("city", "", "place name to resolve against agency profiles")
	scoreCmd.Flags().String("state", "", "two-letter region code")
	scoreCmd.Flags().Float64("lat", 0, "latitude")
	scoreCmd.Flags().Float64("lng", 0, "longitude")
	scoreCmd.Flags().Int("population", 0, "local population")
	scoreCmd.Flags().Float64("region-rate", 0, "region Part I rate per 100k, used when no agency resolves")
	scoreCmd.Flags().Int("hour", -1, "hour of day 0-23 (default: current hour)")
	scoreCmd.Flags().Int("travelers", 1, "group size")
	scoreCmd.Flags().String("gender", "", "traveler gender (female, male, mixed)")
	scoreCmd.Flags().Float64("weather", 0, "weather severity 0-1")
	scoreCmd.Flags().Int("duration", 60, "stay duration in minutes")
	scoreCmd.Flags().Bool("college", false, "college town")
	scoreCmd.Flags().Bool("urban", false, "urban core")
	scoreCmd.Flags().Float64("poi-density", 0, "nearby POI density 0-1")
	scoreCmd.Flags().Int("live-events", 0, "live event count nearby")
	scoreCmd.Flags().Int("live-incidents", 0, "live incident count nearby")
	scoreCmd.Flags().Float64("moon", 0, "moon illumination 0-1")
	rootCmd.AddCommand(scoreCmd)
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tablesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "digalo_tables_created_total",
			Help: "Tables opened since startup",
		},
	)
	tablesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "digalo_tables_active",
			Help: "Tables currently open",
		},
	)
	gamesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "digalo_games_started_total",
			Help: "Games that left setup",
		},
	)
	gamesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "digalo_games_finished_total",
			Help: "Games that reached results",
		},
	)
	turnsPlayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "digalo_turns_total",
			Help: "Turns begun",
		},
	)
	correctGuesses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "digalo_correct_guesses_total",
			Help: "Words guessed correctly",
		},
	)
)

func init() {
	prometheus.MustRegister(tablesCreated, tablesActive, gamesStarted, gamesFinished, turnsPlayed, correctGuesses)
}

func registerMetrics(cfg *Config, mux *httprouter.Router) {
	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.Handler())

	logf(cfg, "SERVE: Metrics registered at %s/metrics", cfg.prefix)
}

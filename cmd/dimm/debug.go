package main

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/essepuntato/dimm/internal/stats"
	"github.com/gorilla/mux"
)

func listenDebug(st *stats.Stats) {
	router := mux.NewRouter()
	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)
	router.HandleFunc("/debug/pprof/{cmd}", pprof.Index) // named profiles, gorilla mux has no catch-all

	// progress of the current merge run, for scripting against long runs
	router.HandleFunc("/progress", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(st.Progress())
	})

	st.Log("debug server listening", "addr", debugServer)

	server := http.Server{
		Addr:              debugServer,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	st.LogFatal("debug server listen", server.ListenAndServe())
}

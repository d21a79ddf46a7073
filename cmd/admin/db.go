package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dbPath := fs.String("db", "craft.db", "sqlite world cache path")
	p := fs.Int("p", 0, "chunk p (blocks, lights, signs)")
	q := fs.Int("q", 0, "chunk q (blocks, lights, signs)")
	limit := fs.Int("limit", 20, "result limit")
	_ = fs.Parse(args)

	query := "summary"
	if fs.NArg() > 0 {
		query = strings.TrimSpace(fs.Arg(0))
	}
	if *limit <= 0 {
		*limit = 20
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	switch query {
	case "summary":
		var r struct {
			Path   string `json:"path"`
			Blocks int    `json:"blocks"`
			Lights int    `json:"lights"`
			Signs  int    `json:"signs"`
			Keys   int    `json:"keys"`
			Chunks int    `json:"chunks"`
		}
		r.Path = *dbPath
		row := db.QueryRow(`SELECT
			(SELECT COUNT(*) FROM block),
			(SELECT COUNT(*) FROM light),
			(SELECT COUNT(*) FROM sign),
			(SELECT COUNT(*) FROM key),
			(SELECT COUNT(*) FROM (SELECT DISTINCT p, q FROM block))`)
		if err := row.Scan(&r.Blocks, &r.Lights, &r.Signs, &r.Keys, &r.Chunks); err != nil {
			fmt.Fprintln(os.Stderr, "scan:", err)
			os.Exit(1)
		}
		printJSON(r)

	case "chunks":
		rows, err := db.Query(`SELECT p, q, COUNT(*) FROM block GROUP BY p, q ORDER BY COUNT(*) DESC, p, q LIMIT ?`, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				P      int `json:"p"`
				Q      int `json:"q"`
				Blocks int `json:"blocks"`
			}
			if err := rows.Scan(&r.P, &r.Q, &r.Blocks); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		exitOnRowsErr(rows)

	case "blocks", "lights":
		table := "block"
		if query == "lights" {
			table = "light"
		}
		rows, err := db.Query(`SELECT x, y, z, w FROM `+table+` WHERE p = ? AND q = ? ORDER BY y, x, z LIMIT ?`, *p, *q, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Pos [3]int `json:"pos"`
				W   int    `json:"w"`
			}
			if err := rows.Scan(&r.Pos[0], &r.Pos[1], &r.Pos[2], &r.W); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		exitOnRowsErr(rows)

	case "signs":
		rows, err := db.Query(`SELECT x, y, z, face, text FROM sign WHERE p = ? AND q = ? LIMIT ?`, *p, *q, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Pos  [3]int `json:"pos"`
				Face int    `json:"face"`
				Text string `json:"text"`
			}
			if err := rows.Scan(&r.Pos[0], &r.Pos[1], &r.Pos[2], &r.Face, &r.Text); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		exitOnRowsErr(rows)

	case "keys":
		rows, err := db.Query(`SELECT p, q, key FROM key ORDER BY p, q LIMIT ?`, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				P   int `json:"p"`
				Q   int `json:"q"`
				Key int `json:"key"`
			}
			if err := rows.Scan(&r.P, &r.Q, &r.Key); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		exitOnRowsErr(rows)

	case "state":
		var r struct {
			X  float64 `json:"x"`
			Y  float64 `json:"y"`
			Z  float64 `json:"z"`
			RX float64 `json:"rx"`
			RY float64 `json:"ry"`
		}
		row := db.QueryRow(`SELECT x, y, z, rx, ry FROM state`)
		if err := row.Scan(&r.X, &r.Y, &r.Z, &r.RX, &r.RY); err != nil {
			if err == sql.ErrNoRows {
				fmt.Fprintln(os.Stderr, "no saved state")
				os.Exit(2)
			}
			fmt.Fprintln(os.Stderr, "scan:", err)
			os.Exit(1)
		}
		printJSON(r)

	default:
		fmt.Fprintln(os.Stderr, "unknown query:", query)
		fmt.Fprintln(os.Stderr, "usage: admin db [-db PATH] [-p P -q Q] [-limit N] summary|chunks|blocks|lights|signs|keys|state")
		os.Exit(2)
	}
}

func exitOnRowsErr(rows *sql.Rows) {
	if err := rows.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "rows:", err)
		os.Exit(1)
	}
}

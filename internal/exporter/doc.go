// Package exporter writes the pipeline's reports: the daily
// classification CSV, the weekly summary in CSV and JSON, and the
// rejected-row tallies. All files land under one output directory and
// CSV files carry a UTF-8 BOM so Excel opens them cleanly.
package exporter

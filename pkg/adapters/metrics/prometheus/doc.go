// Package prometheus records completion, delivery and run metrics and exports
// them once per run to a node-exporter textfile or a Pushgateway.
package prometheus

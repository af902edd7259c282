// Package metrics defines and registers the Prometheus metrics of the CRM.
// It is the single source of truth for metric names, labels, and help
// strings.
//
// All metrics register with the default registry on import. The CLI flushes
// them to a node_exporter textfile with WriteTextfile when configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts authorization decisions.
// Labels:
//   - action: the requested action (e.g. "contract.sign")
//   - role: the caller's role
//   - outcome: "allow" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, by action, role and outcome.",
	},
	[]string{"action", "role", "outcome"},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// LifecycleRejectionsTotal counts changes refused by a record invariant.
// Labels:
//   - kind: the record kind (account, contract, event, actor)
//   - reason: the stable reason code (e.g. "invalid_payment", "contract_not_signed")
var LifecycleRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_rejections_total",
		Help:      "Total number of create/update requests rejected by a record invariant.",
	},
	[]string{"kind", "reason"},
)

// RecordMutationsTotal counts persisted changes.
// Labels:
//   - kind: the record kind
//   - op: "create", "update", "sign", "payment", "assign", "reassign" or "delete"
var RecordMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_mutations_total",
		Help:      "Total number of records created or changed, by kind and operation.",
	},
	[]string{"kind", "op"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "locked"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// CommandDuration measures how long a CLI command takes end to end.
// Labels:
//   - command: the command name (e.g. "contract sign")
//   - code: "ok" or the stable reason code of the failure
var CommandDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "command_duration_seconds",
		Help:      "Duration of CLI commands from dispatch to completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"command", "code"},
)

// WriteTextfile dumps every registered metric to path in the Prometheus text
// format, replacing the file atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

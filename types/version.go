package types

// Version is the hookchain release version reported by the CLI and stamped
// into every telemetry envelope as the contract version.
const Version = "0.3.0"

// Package ir provides the foundational value types shared by every layer of mvsync.
//
// This package contains type definitions and pure functions only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Handles are generational: a handle names one record for its whole lifetime
//     and never aliases a later record that reuses the same slot
//   - Actions, notifications and effects are sealed interfaces; only the types
//     declared here implement them
//   - NO float types in digested values - snapshots hash deterministically
//   - All JSON tags use snake_case
package ir

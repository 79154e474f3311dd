// Package screen holds the list state behind each cinemactl view.
//
// A screen loads its collection on demand, applies mutations through a
// resource API and reconciles the local list according to a SyncPolicy.
// Failures never propagate: each action reports success as a bool and
// leaves a fixed message in Err(). Only one operation runs per screen at a
// time; overlapping calls are skipped.
package screen

package tui

import (
	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/share"
	"github.com/dohr-michael/promptdna/internal/workflow"
)

// AnalysisDoneMsg carries the outcome of one analysis request, after the
// reveal delay has elapsed.
type AnalysisDoneMsg struct {
	Req     workflow.Request
	Profile *dna.Profile
	Err     error
}

// ShareDoneMsg carries the outcome of a share action.
type ShareDoneMsg struct {
	Method share.Method
	Notice *workflow.Notice
	Err    error
}

package model

// PromoteStudentsRequest is the payload for promoting students from a
// historical session into the active session. An empty StudentIDs list
// selects every student of the source session. TargetClassID nil makes each
// student resolve to the equally-named class in the target session.
type PromoteStudentsRequest struct {
	SourceSessionID int   `json:"source_session_id" binding:"required"`
	TargetSessionID int   `json:"target_session_id" binding:"required"`
	StudentIDs      []int `json:"student_ids"`
	TargetClassID   *int  `json:"target_class_id"`
	// PreserveNIS fails a student instead of suffixing when their NIS
	// already exists in the target session.
	PreserveNIS     bool `json:"preserve_nis"`
	SkipFrozenCheck bool `json:"skip_frozen_check"`
}

// PromotionError reports one student that could not be promoted.
type PromotionError struct {
	StudentID int    `json:"student_id"`
	NIS       string `json:"nis"`
	Reason    string `json:"reason"`
}

// PromotionResult is the partial-success report of one promotion batch. The
// batch never fails as a whole once per-student work has begun; failures are
// collected here instead.
type PromotionResult struct {
	PromotedCount int              `json:"promoted_count"`
	TotalCount    int              `json:"total_count"`
	Promoted      []Student        `json:"promoted"`
	Errors        []PromotionError `json:"errors"`
}

package dto

import (
	"company-research-be/internal/entity"
)

type StartResearchRequest struct {
	CompanyName       string `json:"company_name" validate:"required"`
	Depth             string `json:"depth" validate:"required,oneof=quick_summary deep_research full_account_plan"`
	ExtraInstructions string `json:"extra_instructions"`
}

type StartResearchResponse struct {
	ConversationId string              `json:"conversation_id"`
	AccountPlan    *entity.AccountPlan `json:"account_plan"`
}

type ChatMessageRequest struct {
	ConversationId string `json:"conversation_id" validate:"required"`
	Message        string `json:"message" validate:"required"`
}

type ChatMessageResponse struct {
	// May carry plain prose or a serialized chart_request payload
	Reply string `json:"reply"`
}

type FeedbackRequest struct {
	ConversationId string `json:"conversation_id" validate:"required"`
	OverallNotes   string `json:"overall_notes"`
}

type FeedbackResponse struct {
	FeedbackSummary string `json:"feedback_summary"`
}

type EditSectionRequest struct {
	ConversationId string `json:"conversation_id" validate:"required"`
	SectionTitle   string `json:"section_title" validate:"required"`
	NewContent     string `json:"new_content" validate:"required"`
}

type EditSectionResponse struct {
	Updated bool `json:"updated"`
}

type ConversationStateResponse struct {
	ConversationId string              `json:"conversation_id"`
	AccountPlan    *entity.AccountPlan `json:"account_plan"`
	History        []entity.ChatTurn   `json:"history"`
	PendingCount   int                 `json:"pending_conflicts"`
}

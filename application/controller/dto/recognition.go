package dto

type VerifyAccessRequest struct {
	ImageBase64  string `json:"imageBase64" validate:"required,base64image"`
	CheckpointID string `json:"checkpointId" validate:"omitempty,checkpoint_id"`
	// CheckLiveness defaults to true when omitted.
	CheckLiveness *bool `json:"checkLiveness"`
}

type EnrollFaceRequest struct {
	UserID       string   `json:"userId" validate:"required"`
	ImagesBase64 []string `json:"imagesBase64" validate:"required,min=1,max=10,dive,base64image"`
}

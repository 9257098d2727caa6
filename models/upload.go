package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Upload records a blob pushed to the blob store by the evidence ingestor. Uploads that
// never get attached to a case are removed by the orphan sweep.
type Upload struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	URL          string             `bson:"url" json:"url"`
	PublicID     string             `bson:"publicId" json:"publicId"`
	ResourceType string             `bson:"resourceType,omitempty" json:"resourceType,omitempty"`
	Backend      string             `bson:"backend" json:"backend"`
	Folder       string             `bson:"folder" json:"folder"`
	Attached     bool               `bson:"attached" json:"attached"`
	CaseID       string             `bson:"caseId,omitempty" json:"caseId,omitempty"`
	CreatedAt    primitive.DateTime `bson:"createdAt" json:"createdAt"`
}

// SchedulerLock is a lease on a background job so only one instance runs it at a time
type SchedulerLock struct {
	ID        string             `bson:"_id" json:"id"`
	Owner     string             `bson:"owner" json:"owner"`
	ExpiresAt primitive.DateTime `bson:"expiresAt" json:"expiresAt"`
}

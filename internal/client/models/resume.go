package models

import "encoding/json"

// ResumeRef is the server handle for an uploaded résumé, paired with the
// original file name for display.
type ResumeRef struct {
	ID       string
	FileName string
}

// UploadResponse is the body of POST /resume/upload. The id is read from
// "_id" at the top level or under "data".
type UploadResponse struct {
	ID string
}

func (u *UploadResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID   string `json:"_id"`
		Data *struct {
			ID string `json:"_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	if u.ID == "" && raw.Data != nil {
		u.ID = raw.Data.ID
	}
	return nil
}

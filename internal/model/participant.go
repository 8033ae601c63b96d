package model

// Participant is an identified person tracked by the registry.
// Display fields are last-write-wins: every accepted pairing event
// overwrites them with the latest values observed on the wire.
type Participant struct {
	ID          string `db:"id" json:"id"`
	DisplayName string `db:"display_name" json:"displayName"`
	Handle      string `db:"handle" json:"handle"`
}

type UpsertParticipantParams struct {
	ID          string
	DisplayName string
	Handle      string
}

// ResolveDisplayName applies the display-name precedence rule once at
// ingestion time: the display name if non-empty, otherwise the handle.
func ResolveDisplayName(displayName, handle string) string {
	if displayName != "" {
		return displayName
	}
	return handle
}

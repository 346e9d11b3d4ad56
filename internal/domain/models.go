package domain

// Domain contains the rover and photo models decoded from the upstream API.

// RoverStatus is the mission status reported for a rover.
type RoverStatus string

const (
	RoverStatusActive   RoverStatus = "active"
	RoverStatusComplete RoverStatus = "complete"
)

// Valid reports whether s is one of the known statuses.
func (s RoverStatus) Valid() bool {
	return s == RoverStatusActive || s == RoverStatusComplete
}

// RoverInfo is the metadata (manifest) of a single rover.
type RoverInfo struct {
	Name            string           `json:"name"`
	LaunchDate      Date             `json:"launch_date"`
	LandingDate     Date             `json:"landing_date"`
	Status          RoverStatus      `json:"status"`
	MaxSol          int              `json:"max_sol"`
	MaxDate         Date             `json:"max_date"`
	NumberOfPhotos  int              `json:"total_photos"`
	SolDescriptions []SolDescription `json:"photos"`
}

// SolDescription summarizes the photos taken on one sol.
type SolDescription struct {
	Sol         int      `json:"sol"`
	EarthDate   Date     `json:"earth_date"`
	TotalPhotos int      `json:"total_photos"`
	Cameras     []string `json:"cameras"`
}

// Camera identifies the rover camera that took a photo.
type Camera struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RoverID  int    `json:"rover_id"`
	FullName string `json:"full_name"`
}

// PhotoReference points at one image taken by a rover.
type PhotoReference struct {
	ID        int    `json:"id"`
	Sol       int    `json:"sol"`
	Camera    Camera `json:"camera"`
	ImageURL  string `json:"img_src"`
	EarthDate Date   `json:"earth_date"`
}

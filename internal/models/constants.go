package models

// difficulty labels accepted from clients (in lowercase)
var ValidDifficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

func ValidDifficultiesList() []string {
	return []string{"Beginner", "Intermediate", "Advanced"}
}

// answer modes accepted from clients
var ValidAnswerModes = map[string]bool{
	"text":  true,
	"voice": true,
	"video": true,
}

// largest recording accepted by the recording endpoint
const MaxRecordingBytes = 25 << 20

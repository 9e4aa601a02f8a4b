package models

// Job - краткая карточка вакансии из live-ленты.
// Никогда не персистится на клиенте, живет только в буфере ленты.
type Job struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	JobType  string `json:"job_type,omitempty"`
	PostedAt string `json:"posted_at,omitempty"`
}

// JobStreamEvent - конверт события из /job/stream.
// Нераспознанные типы игнорируются клиентом.
type JobStreamEvent struct {
	Type string `json:"type"`
	Job  *Job   `json:"job,omitempty"`
}

// JobStreamEventCreated - единственный тип события, который обрабатывает лента
const JobStreamEventCreated = "job_created"

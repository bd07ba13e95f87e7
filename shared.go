package sports

const TaskQueueName = "sportx-task-queue"

// All TheSportsDB v1 endpoints live under a single base URL with the public key appended:
// https://www.thesportsdb.com/api/v1/json/{API_KEY}/{ENDPOINT}.php
// For example, the next fixtures of the English Premier League are at
// https://www.thesportsdb.com/api/v1/json/3/eventsnextleague.php?id=4328
const DefaultSportsDBBaseURL = "https://www.thesportsdb.com/api/v1/json/3"

const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

const DefaultAuthBaseURL = "https://dummyjson.com"

// Keys used in the durable key-value store.
const (
	KeyFavorites     = "@favorites"
	KeyActiveCountry = "@active_country"
	KeyActiveLeague  = "@active_league"
)

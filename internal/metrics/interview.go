package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	interviewsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Interviews that entered the timed question phase",
	})

	interviewsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_completed_total",
		Help:      "Interviews that reached a final summary",
	})

	fallbackQuestionSets = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_question_sets_total",
		Help:      "Question sets served from the local bank instead of the generator",
	})

	answersScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_total",
		Help:      "Scored answers by difficulty and submission kind",
	}, []string{"difficulty", "auto_submitted"})

	overallScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "overall_score",
		Help:      "Distribution of final interview scores",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})
)

// Recorder reports interview lifecycle metrics
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (*Recorder) InterviewStarted() { interviewsStarted.Inc() }

func (*Recorder) FallbackUsed() { fallbackQuestionSets.Inc() }

func (*Recorder) AnswerScored(difficulty string, autoSubmitted bool) {
	auto := "false"
	if autoSubmitted {
		auto = "true"
	}
	answersScored.WithLabelValues(difficulty, auto).Inc()
}

func (*Recorder) InterviewCompleted(score int) {
	interviewsCompleted.Inc()
	overallScores.Observe(float64(score))
}

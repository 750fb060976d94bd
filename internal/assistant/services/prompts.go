package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

const taskPlanSystemPrompt = `You are the planning stage of a conversational assistant.
Break the user's latest request into one or more independent sub-tasks.
Each sub-task must be dispatched to exactly one agent: "web_search" for
anything requiring current or external information, "general_answer" for
anything answerable from the model's own knowledge. Produce at least one
task. Prefer the fewest tasks that fully cover the request.`

const generalAnswerSystemPrompt = `You are the general-answer execution stage of a conversational assistant.
Answer the given sub-task directly and completely, using the conversation
history for context. Do not mention that you are one of several tasks.`

const searchQuerySystemPrompt = `You generate web search queries for a sub-task of a conversational
assistant. Produce at most 3 short, targeted queries. Avoid repeating a
query that has already been tried for this task.`

const taskResultSystemPrompt = `You synthesize a sub-task's answer from web search results. Use only the
provided search results as evidence; do not invent facts not supported by
them. If the results do not answer the task, say so plainly.`

const taskEvaluationSystemPrompt = `You judge whether a sub-task's result adequately answers its description.
If it does not, decide whether the problem is insufficient search evidence
("search") or a synthesis failure over otherwise-sufficient evidence
("generate").`

const finalAnswerSystemPrompt = `You synthesize one integrated final answer to the user's latest request
from the results of every sub-task that was run against it. Weave the
sub-task results into a single coherent response; do not refer to "tasks"
or "sub-tasks" by name.`

func todayLine(now time.Time) string {
	return fmt.Sprintf("Today's date is %s.", now.Format("2006-01-02"))
}

func taskPlanUserPrompt(now time.Time, latestUserText string) string {
	return fmt.Sprintf("%s\nPlan only for the latest request: %s", todayLine(now), latestUserText)
}

func generalAnswerUserPrompt(now time.Time, taskDescription string) string {
	return fmt.Sprintf("%s\nSub-task: %s", todayLine(now), taskDescription)
}

func searchQueryUserPrompt(now time.Time, taskDescription string, usedQueries []string, feedback string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nSub-task: %s\n", todayLine(now), taskDescription)
	if len(usedQueries) > 0 {
		fmt.Fprintf(&b, "\nQueries already tried, diversify away from these:\n")
		for _, q := range usedQueries {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	if strings.TrimSpace(feedback) != "" {
		fmt.Fprintf(&b, "\nIncorporate this feedback from the evaluator: %s\n", feedback)
	}
	return b.String()
}

func taskResultUserPrompt(now time.Time, taskDescription string, results []domain.SearchResult, feedback, previousResult string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nSub-task: %s\n\nSearch results:\n", todayLine(now), taskDescription)
	if len(results) == 0 {
		b.WriteString("(no search results)\n")
	}
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s (%s)\n%s\n\n", i, r.Title, r.URL, r.Content)
	}
	if strings.TrimSpace(previousResult) != "" {
		fmt.Fprintf(&b, "Previous attempt's result:\n%s\n\n", previousResult)
	}
	if strings.TrimSpace(feedback) != "" {
		fmt.Fprintf(&b, "Incorporate this feedback from the evaluator: %s\n", feedback)
	}
	return b.String()
}

func taskEvaluationUserPrompt(now time.Time, taskDescription, result string) string {
	return fmt.Sprintf("%s\nSub-task: %s\n\nResult to judge:\n%s", todayLine(now), taskDescription, result)
}

func finalAnswerUserPrompt(now time.Time, latestUserText, formattedResults string) string {
	return fmt.Sprintf("%s\nUser's latest request: %s\n\nSub-task results:\n%s", todayLine(now), latestUserText, formattedResults)
}

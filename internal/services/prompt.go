package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildFeedbackPrompt creates the hiring-feedback prompt. The instructions pin
// the output to 2-4 critical bullet points with no framing text; the response
// is used verbatim, so the template carries all of the formatting contract.
func (pb *PromptBuilder) BuildFeedbackPrompt(question, transcript string, avgPrediction, speechRateWPM float64) string {
	return fmt.Sprintf(`You are an assistant to a hiring manager who is conducting a behavioral interview. You are given a question, a transcript of the answer, an average confidence prediction (range 1-5 where 1 is not confident and 5 is very confident), and a speech rate in words per minute.
You need to analyze the question, relevancy of the answer to the question, other parameters provided to you.
You need to provide helpful feedback to the hiring manager who is tasked to make the decision to hire the candidate.
The feedback should be critical, short, and to the point.
The feedback should be in the bullet points and can be 2-4 points.
The feedback will only contain bullet points and no other text like headings or paragraphs or conclusions.
Do not mention the question, answer, average prediction, or speech rate in the feedback. Just write your insights in the feedback.
The feedback should not contain tips or suggestions for the candidate.
The question is: %s
The transcript of the answer is: %s
The average prediction is: %v
The speech rate is: %v`,
		question, transcript, avgPrediction, speechRateWPM)
}

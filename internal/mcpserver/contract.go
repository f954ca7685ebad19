package mcpserver

// RatingScaleContract describes the rating scale LLM consumers must use
// when rating items on the user's behalf.
const RatingScaleContract = `# Revise Rating Scale

Every review is rated with exactly one of four values. The scale is a
deliberately sparse subset of 0..5; do NOT use 1 or 2.

| Value | Label | Meaning                                          | Effect |
|-------|-------|--------------------------------------------------|--------|
| 0     | Again | Failed recall                                    | Repetition streak resets, item comes back tomorrow |
| 3     | Hard  | Recalled with serious difficulty                 | Interval grows slowly (x1.2) |
| 4     | Good  | Recalled correctly with some effort              | Interval grows by the item's easiness factor |
| 5     | Easy  | Recalled instantly                               | Interval grows fastest (easiness x1.3) |

## Rules

1. Rate honestly on the user's behalf only when the user states how the
   review went. Never invent ratings.
2. A rating of 0 discards all streak progress for the item. Use it for
   any failed recall, including partial recall.
3. Ratings outside {0, 3, 4, 5} are rejected by the server.
4. Each rating is recorded permanently in the review log and drives the
   streak and heatmap statistics.
`

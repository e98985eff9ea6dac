package roma

// atomizerPrompt asks whether a goal needs decomposition.
const atomizerPrompt = `Decide whether the following goal can be answered directly in one pass, or whether it should be decomposed into smaller analytical subtasks.

Goal:
%s

Return ONLY a JSON object with this exact structure (no other text):
{"decision": "atomic"}
or
{"decision": "plan"}

Use "atomic" when a single focused answer suffices. Use "plan" when the goal has several independent aspects that benefit from separate analysis.`

// plannerPrompt breaks a goal into parallel subtasks.
const plannerPrompt = `Break this goal into independent analytical subtasks. Each subtask should examine one aspect and be answerable on its own.

Goal:
%s

Return ONLY a JSON array with this exact structure (no other text):
[
  {"goal": "First subtask to analyze"},
  {"goal": "Second subtask to analyze"}
]

Keep the list short: 2 to 5 subtasks.`

// executorSystem frames a direct answer to one goal.
const executorSystem = `You are an analyst. Answer the goal directly and concisely. State your conclusion first, then the key evidence.`

// aggregatorPrompt combines subtask results into one answer.
const aggregatorPrompt = `Combine the subtask findings below into one coherent answer to the original goal. Resolve disagreements explicitly rather than averaging them away.

Original goal:
%s

Subtask findings:
%s

Reply with the final answer only.`

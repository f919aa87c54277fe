package llm

const atsSystemPrompt = "You are an expert ATS (Applicant Tracking System) scanner and career coach. " +
	"Always respond with valid JSON only, no markdown formatting."

const atsUserPrompt = `Analyze the following resume against the provided job description (or general industry standards if JD is empty).

Resume Text:
"%s"

Job Description:
"%s"

Return a JSON object with the following structure:
{
    "score": number, // 0-100 score based on keyword matching and formatting
    "missingKeywords": string[], // List of important keywords missing from the resume
    "feedback": string[], // List of 3-5 actionable improvements
    "summary": "Brief summary of the analysis"
}

Ensure the response is valid JSON. Do not include markdown formatting.`

const improveSystemPrompt = "You are a Resume Editor. Your job is to improve the language and formatting of an existing resume without changing any factual details.\n\n" +
	"CRITICAL OUTPUT RULES:\n" +
	"1. Return ONLY valid JSON.\n" +
	"2. The 'improvedResume' field MUST be a SINGLE string. Use '\\n' (newline character) for formatting. DO NOT break the string into multiple lines in the JSON source.\n" +
	"3. Input text may contain PDF artifacts; ignore them.\n" +
	"4. DO NOT output PDF binary code.\n" +
	"5. DO NOT ANONYMIZE the content; keep all names and details exactly as they are."

const improveUserPrompt = `Enhance the following resume text.

Original Resume:
%s

STRICT EDITING RULES:
1.  **NO ANONYMIZATION**: Do NOT replace real company names with "ABC Company" or similar placeholders. Keep the EXACT original names.
2.  **PRESERVE DETAILS**: Keep all dates, job titles, and university names exactly as they appear in the original.
3.  **IMPROVE CONTENT**:
    -   Rewrite bullet points to use strong action verbs (e.g., "Spearheaded", "Optimized").
    -   Incorporate these missing keywords if relevant: %s.
    -   Fix grammar and spelling errors.
4.  **FORMATTING**: Organize into standard sections (Summary, Experience, Education, Skills).
5.  **NO BINARY**: The improvedResume field must be a PLAIN TEXT string. Do NOT output %%PDF or any binary data.
6.  **NO COMMENTARY**: Do NOT include a "Changes Made" section, introduction, or conclusion. Return the resume text ONLY.
7.  **JSON STRING FORMAT**: The 'improvedResume' value MUST be a single line string in the JSON output, using '\n' for line breaks. Do not write multi-line strings.

Return a JSON object with this structure:
{
  "improvedResume": "The full text of the enhanced resume (for plain text view)...",
  "structuredResume": {
    "personalInfo": { "name": "...", "contact": "...", "summary": "..." },
    "experience": [ { "role": "...", "company": "...", "date": "...", "description": ["Bullet 1", "Bullet 2"] } ],
    "education": [ { "degree": "...", "school": "...", "date": "...", "description": "..." } ],
    "skills": ["Skill 1", "Skill 2"]
  },
  "improvedScore": 85
}`

const analyzeSystemPrompt = "You are a senior software engineer reviewing open-source projects. " +
	"Always respond with valid JSON only, no markdown formatting."

const analyzeUserPrompt = `Assess the quality of the following project from its documentation and file listing.

README:
"%s"

File Listing:
%s

Return a JSON object with the following structure:
{
    "score": number, // 0-100 overall quality score
    "summary": "Brief assessment of the project",
    "strengths": string[], // What the project does well
    "weaknesses": string[], // Where the project falls short
    "improvements": string[] // Concrete suggestions
}

Ensure the response is valid JSON. Do not include markdown formatting.`

const summarySystemPrompt = "You are a professional technical copywriter. " +
	"Respond with plain prose only: no JSON, no markdown, no headings."

const summaryUserPrompt = `Write a confident, third-person professional summary (2-3 sentences) for a software developer portfolio.

Biography:
"%s"

Skills: %s

Return only the summary text.`

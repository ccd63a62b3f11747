package apitest

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/career-guide/internal/types"
)

// maxRecommendations caps how many careers a generation run stores.
const maxRecommendations = 8

type traitWeight struct {
	Trait  string
	Weight float64
}

// career is one catalog entry scored against the answer values.
type career struct {
	Name        string
	Traits      []traitWeight
	Description string
	Details     types.Details
}

type scoredCareer struct {
	Career      string
	Score       float64
	Description string
	Details     types.Details
}

// DefaultQuestions returns the six questions the backend seeds on first start.
func DefaultQuestions() []types.Question {
	return []types.Question{
		{
			ID:       1,
			Prompt:   "Which type of activities do you find most engaging?",
			Category: "interests",
			Options: []types.Option{
				{Value: "analytical", Label: "Analyzing data and solving complex problems"},
				{Value: "creative", Label: "Creating and designing new things"},
				{Value: "social", Label: "Working with and helping people"},
				{Value: "practical", Label: "Building and fixing things with your hands"},
			},
		},
		{
			ID:       2,
			Prompt:   "How do you prefer to work?",
			Category: "personality",
			Options: []types.Option{
				{Value: "team", Label: "In a collaborative team environment"},
				{Value: "independent", Label: "Independently with minimal supervision"},
				{Value: "leadership", Label: "Leading and directing others"},
				{Value: "structured", Label: "In a structured, organized setting"},
			},
		},
		{
			ID:       3,
			Prompt:   "Which subject area interests you most?",
			Category: "academic",
			Options: []types.Option{
				{Value: "stem", Label: "Science, Technology, Engineering, Math"},
				{Value: "humanities", Label: "Literature, History, Philosophy"},
				{Value: "arts", Label: "Visual Arts, Music, Theater"},
				{Value: "business", Label: "Business, Economics, Finance"},
			},
		},
		{
			ID:       4,
			Prompt:   "What is your greatest strength?",
			Category: "skills",
			Options: []types.Option{
				{Value: "communication", Label: "Communication and interpersonal skills"},
				{Value: "technical", Label: "Technical and analytical abilities"},
				{Value: "creativity", Label: "Creative thinking and innovation"},
				{Value: "organization", Label: "Organization and attention to detail"},
			},
		},
		{
			ID:       5,
			Prompt:   "What type of work environment appeals to you?",
			Category: "environment",
			Options: []types.Option{
				{Value: "office", Label: "Traditional office setting"},
				{Value: "remote", Label: "Remote or flexible workspace"},
				{Value: "outdoors", Label: "Outdoor or field work"},
				{Value: "laboratory", Label: "Laboratory or research facility"},
			},
		},
		{
			ID:       6,
			Prompt:   "What motivates you most in your career?",
			Category: "values",
			Options: []types.Option{
				{Value: "impact", Label: "Making a positive impact on society"},
				{Value: "growth", Label: "Personal and professional growth"},
				{Value: "stability", Label: "Job security and stability"},
				{Value: "innovation", Label: "Innovation and cutting-edge work"},
			},
		},
	}
}

var careerCatalog = []career{
	{
		Name:        "Software Engineer",
		Traits:      weights("analytical", 3, "technical", 3, "stem", 3, "independent", 2, "innovation", 2, "remote", 2),
		Description: "High match based on your analytical skills and interest in technology",
		Details: types.Details{
			Overview:        "Software engineers design, develop, and maintain software applications and systems.",
			Skills:          []string{"Programming", "Problem Solving", "System Design", "Testing", "Debugging"},
			Education:       "Bachelor's degree in Computer Science or related field",
			Salary:          "$85,000 - $150,000",
			Outlook:         "Excellent - 22% growth expected",
			WorkEnvironment: "Office or remote, collaborative team environment",
		},
	},
	{
		Name:        "Data Scientist",
		Traits:      weights("analytical", 3, "technical", 3, "stem", 3, "structured", 2, "growth", 2, "innovation", 2),
		Description: "Strong alignment with your mathematical aptitude and problem-solving abilities",
		Details: types.Details{
			Overview:        "Data scientists analyze complex data to help organizations make informed decisions.",
			Skills:          []string{"Statistics", "Machine Learning", "Python/R", "Data Visualization", "SQL"},
			Education:       "Bachelor's or Master's degree in Data Science, Statistics, or related field",
			Salary:          "$95,000 - $165,000",
			Outlook:         "Very Good - 35% growth expected",
			WorkEnvironment: "Office setting, often working with cross-functional teams",
		},
	},
	{
		Name:        "UX Designer",
		Traits:      weights("creative", 3, "communication", 2, "arts", 3, "team", 2, "innovation", 2, "creativity", 3),
		Description: "Good fit for your creative thinking and user-focused mindset",
		Details: types.Details{
			Overview:        "UX designers create intuitive and engaging user experiences for digital products.",
			Skills:          []string{"Design Thinking", "Prototyping", "User Research", "Wireframing", "Adobe Creative Suite"},
			Education:       "Bachelor's degree in Design, Psychology, or related field",
			Salary:          "$70,000 - $130,000",
			Outlook:         "Good - 13% growth expected",
			WorkEnvironment: "Creative studio or office environment, collaborative work",
		},
	},
	{
		Name:        "Product Manager",
		Traits:      weights("leadership", 3, "communication", 3, "business", 3, "team", 2, "growth", 2, "analytical", 2),
		Description: "Matches your leadership potential and strategic thinking",
		Details: types.Details{
			Overview:        "Product managers guide the development and strategy of products from conception to launch.",
			Skills:          []string{"Strategic Planning", "Communication", "Market Analysis", "Project Management", "Agile"},
			Education:       "Bachelor's degree in Business, Engineering, or related field",
			Salary:          "$100,000 - $180,000",
			Outlook:         "Very Good - 19% growth expected",
			WorkEnvironment: "Office setting, leading cross-functional teams",
		},
	},
	{
		Name:        "Cybersecurity Analyst",
		Traits:      weights("analytical", 2, "technical", 3, "stem", 2, "organization", 3, "stability", 2, "structured", 2),
		Description: "Aligns with your analytical skills and attention to detail",
		Details: types.Details{
			Overview:        "Cybersecurity analysts protect organizations from digital threats and security breaches.",
			Skills:          []string{"Security Protocols", "Risk Assessment", "Incident Response", "Network Security", "Ethical Hacking"},
			Education:       "Bachelor's degree in Cybersecurity, Computer Science, or related field",
			Salary:          "$80,000 - $140,000",
			Outlook:         "Excellent - 33% growth expected",
			WorkEnvironment: "Office or remote, often working in security operations centers",
		},
	},
	{
		Name:        "Marketing Manager",
		Traits:      weights("communication", 3, "creative", 2, "business", 3, "team", 2, "leadership", 2, "social", 2),
		Description: "Perfect for your communication skills and business acumen",
		Details: types.Details{
			Overview:        "Marketing managers develop and execute marketing strategies to promote products and services.",
			Skills:          []string{"Digital Marketing", "Brand Management", "Analytics", "Content Strategy", "Social Media"},
			Education:       "Bachelor's degree in Marketing, Business, or related field",
			Salary:          "$75,000 - $135,000",
			Outlook:         "Good - 10% growth expected",
			WorkEnvironment: "Office setting, collaborative and creative environment",
		},
	},
	{
		Name:        "Financial Analyst",
		Traits:      weights("analytical", 3, "business", 3, "organization", 3, "structured", 2, "stability", 2, "technical", 2),
		Description: "Excellent match for your analytical and organizational skills",
		Details: types.Details{
			Overview:        "Financial analysts evaluate investment opportunities and provide financial guidance.",
			Skills:          []string{"Financial Modeling", "Excel", "Data Analysis", "Risk Assessment", "Forecasting"},
			Education:       "Bachelor's degree in Finance, Economics, or related field",
			Salary:          "$70,000 - $125,000",
			Outlook:         "Good - 6% growth expected",
			WorkEnvironment: "Office setting, often working with financial data and reports",
		},
	},
	{
		Name:        "Graphic Designer",
		Traits:      weights("creative", 3, "arts", 3, "creativity", 3, "independent", 2, "innovation", 2, "technical", 1),
		Description: "Great fit for your artistic and creative abilities",
		Details: types.Details{
			Overview:        "Graphic designers create visual concepts to communicate ideas and inspire audiences.",
			Skills:          []string{"Adobe Creative Suite", "Typography", "Branding", "Layout Design", "Color Theory"},
			Education:       "Bachelor's degree in Graphic Design, Art, or related field",
			Salary:          "$45,000 - $85,000",
			Outlook:         "Average - 3% growth expected",
			WorkEnvironment: "Creative studio, agency, or freelance work",
		},
	},
	{
		Name:        "Teacher",
		Traits:      weights("communication", 3, "social", 3, "humanities", 3, "impact", 3, "team", 2, "organization", 2),
		Description: "Ideal for your passion for helping others and communication skills",
		Details: types.Details{
			Overview:        "Teachers educate students in various subjects and help them develop critical thinking skills.",
			Skills:          []string{"Curriculum Development", "Classroom Management", "Communication", "Assessment", "Technology Integration"},
			Education:       "Bachelor's degree in Education or subject area, plus teaching certification",
			Salary:          "$40,000 - $70,000",
			Outlook:         "Good - 8% growth expected",
			WorkEnvironment: "School setting, working with students and colleagues",
		},
	},
	{
		Name:        "Research Scientist",
		Traits:      weights("analytical", 3, "stem", 3, "technical", 3, "independent", 2, "innovation", 3, "laboratory", 3),
		Description: "Perfect match for your scientific curiosity and analytical mindset",
		Details: types.Details{
			Overview:        "Research scientists conduct experiments and studies to advance knowledge in their field.",
			Skills:          []string{"Research Methods", "Data Analysis", "Scientific Writing", "Laboratory Techniques", "Statistical Analysis"},
			Education:       "Master's or PhD in relevant scientific field",
			Salary:          "$80,000 - $140,000",
			Outlook:         "Good - 8% growth expected",
			WorkEnvironment: "Laboratory or research facility, often independent work",
		},
	},
}

func weights(pairs ...any) []traitWeight {
	out := make([]traitWeight, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, traitWeight{Trait: pairs[i].(string), Weight: float64(pairs[i+1].(int))})
	}
	return out
}

// scoreCareers ranks the catalog against an answer map. An exact value match earns the
// full trait weight, a value containing the trait earns half. Careers with several matches
// get a synergy bonus; scores are percentages with a floor of 30 for weak matches.
func scoreCareers(answers types.Answers) []scoredCareer {
	values := make([]string, 0, len(answers))
	for _, v := range answers {
		values = append(values, v)
	}

	scored := make([]scoredCareer, 0, len(careerCatalog))
	for _, c := range careerCatalog {
		var score, maxScore, matches float64
		for _, tw := range c.Traits {
			maxScore += tw.Weight * 3
			for _, v := range values {
				switch {
				case v == tw.Trait:
					score += tw.Weight * 3
					matches++
				case strings.Contains(v, tw.Trait):
					score += tw.Weight * 1.5
					matches += 0.5
				}
			}
		}

		switch {
		case matches >= 3:
			score *= 1.2
		case matches >= 2:
			score *= 1.1
		}

		pct := 50.0
		if maxScore > 0 {
			pct = math.Min(100, score/maxScore*100)
		}
		if pct < 30 {
			pct = math.Max(30, pct+matches*5)
		}

		scored = append(scored, scoredCareer{
			Career:      c.Name,
			Score:       math.Round(pct*10) / 10,
			Description: c.Description,
			Details:     c.Details,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	return scored
}

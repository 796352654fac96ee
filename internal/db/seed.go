package db

import "fmt"

// SeedPillars inserts the six lifestyle medicine pillars. Runs on every
// startup; INSERT OR IGNORE keeps it idempotent and fixed ids keep FKs stable.
func (db *DB) SeedPillars() error {
	pillars := []struct {
		id          int
		name        string
		displayName string
		description string
		icon        string
		color       string
		quickTip    string
	}{
		{1, "nutrition", "Nutrition",
			"Whole-food, plant-predominant eating. Emphasis on vegetables, fruits, whole grains, legumes, nuts, and seeds.",
			":material/restaurant:", "#4CAF50",
			"Try adding one extra serving of vegetables to your meals today."},
		{2, "physical_activity", "Physical Activity",
			"Regular movement: 150+ min/week moderate or 75+ min/week vigorous aerobic activity, plus strength training 2+ days/week.",
			":material/directions_run:", "#2196F3",
			"A 10-minute walk counts. Start small and build up."},
		{3, "sleep", "Sleep",
			"Restorative sleep: consistently achieving 7-9 hours of quality sleep with good sleep hygiene.",
			":material/bedtime:", "#9C27B0",
			"Set a consistent bedtime and avoid screens 30 minutes before sleep."},
		{4, "stress_management", "Stress Management",
			"Practices to manage chronic stress: mindfulness, meditation, breathing exercises, yoga, time in nature.",
			":material/self_improvement:", "#FF9800",
			"Try 3 deep breaths right now. Inhale for 4 counts, hold for 4, exhale for 6."},
		{5, "social_connection", "Social Connection",
			"Meaningful relationships, community involvement, and a sense of belonging and connectedness.",
			":material/group:", "#E91E63",
			"Reach out to someone you care about today, even just a quick message."},
		{6, "substance_avoidance", "Substance Avoidance",
			"Eliminating tobacco, limiting or eliminating alcohol, and avoiding other harmful substances.",
			":material/block:", "#607D8B",
			"If you drink alcohol, try replacing one drink this week with sparkling water."},
	}
	for _, p := range pillars {
		_, err := db.Exec(`INSERT OR IGNORE INTO pillars (id, name, display_name, description, icon, color, quick_tip, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.id, p.name, p.displayName, p.description, p.icon, p.color, p.quickTip, p.id)
		if err != nil {
			return fmt.Errorf("seeding pillar %s: %w", p.name, err)
		}
	}
	return nil
}

// SeedReference populates the read-mostly reference tables: biomarker
// definitions, organ score definitions, protocols, micro-lessons, and the
// food database. Each table is skipped when it already has rows, so the
// seed command is safe to rerun.
func (db *DB) SeedReference() error {
	if err := db.seedBiomarkerDefinitions(); err != nil {
		return err
	}
	if err := db.seedOrganScoreDefinitions(); err != nil {
		return err
	}
	if err := db.seedProtocols(); err != nil {
		return err
	}
	if err := db.seedMicroLessons(); err != nil {
		return err
	}
	return db.seedFoodDatabase()
}

func (db *DB) tableEmpty(table string) (bool, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return false, fmt.Errorf("counting %s: %w", table, err)
	}
	return n == 0, nil
}

type biomarkerSeed struct {
	code, name, category, unit                          string
	stdLow, stdHigh, optLow, optHigh, critLow, critHigh *float64
	description, clinicalNote                           string
	pillarID                                            *int64
	sortOrder                                           int
}

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

func (db *DB) seedBiomarkerDefinitions() error {
	empty, err := db.tableEmpty("biomarker_definitions")
	if err != nil || !empty {
		return err
	}
	defs := []biomarkerSeed{
		{"total_cholesterol", "Total Cholesterol", "lipids", "mg/dL", fp(125), fp(200), fp(150), fp(180), nil, fp(300),
			"Sum of all cholesterol in blood.",
			"AHA: desirable <200 mg/dL. Optimal for CVD prevention 150-180.", ip(1), 1},
		{"ldl_cholesterol", "LDL Cholesterol", "lipids", "mg/dL", nil, fp(130), nil, fp(100), nil, fp(190),
			"Low-density lipoprotein ('bad' cholesterol).",
			"AHA/ACC 2018: <100 primary prevention, <70 very high risk.", ip(1), 2},
		{"hdl_cholesterol", "HDL Cholesterol", "lipids", "mg/dL", fp(40), nil, fp(60), nil, fp(20), nil,
			"High-density lipoprotein ('good' cholesterol). Higher is better.",
			"AHA: >40 men, >50 women minimum. Optimal >60.", ip(2), 3},
		{"triglycerides", "Triglycerides", "lipids", "mg/dL", nil, fp(150), nil, fp(100), nil, fp(500),
			"Blood fat level. Responds strongly to diet and exercise.",
			"AHA: normal <150. Optimal <100. Very high >500 (pancreatitis risk).", ip(1), 4},
		{"apob", "ApoB", "lipids", "mg/dL", nil, fp(130), nil, fp(90), nil, fp(160),
			"Apolipoprotein B, one per atherogenic lipoprotein particle.",
			"Emerging as best single measure of atherogenic burden.", ip(1), 6},
		{"fasting_glucose", "Fasting Glucose", "metabolic", "mg/dL", fp(70), fp(100), fp(75), fp(90), fp(50), fp(126),
			"Blood sugar after an overnight fast.",
			"ADA: normal <100, prediabetes 100-125, diabetes ≥126.", ip(1), 10},
		{"hba1c", "HbA1c", "metabolic", "%", fp(4.0), fp(5.7), fp(4.5), fp(5.4), nil, fp(6.5),
			"Average blood glucose over roughly three months.",
			"ADA: normal <5.7%, prediabetes 5.7-6.4%, diabetes ≥6.5%.", ip(1), 11},
		{"fasting_insulin", "Fasting Insulin", "metabolic", "µIU/mL", fp(2), fp(25), fp(2), fp(8), nil, fp(50),
			"Marker of insulin resistance before glucose rises.",
			"Optimal <8 µIU/mL; elevated levels precede prediabetes by years.", ip(1), 12},
		{"hs_crp", "hs-CRP", "inflammation", "mg/L", nil, fp(3.0), nil, fp(1.0), nil, fp(10),
			"High-sensitivity C-reactive protein, a systemic inflammation marker.",
			"AHA: low risk <1, average 1-3, high >3 mg/L.", ip(4), 20},
		{"vitamin_d", "Vitamin D (25-OH)", "vitamins", "ng/mL", fp(30), fp(100), fp(40), fp(60), fp(12), fp(150),
			"Hormone precursor affecting bone, immune, and mood health.",
			"Endocrine Society: sufficiency ≥30 ng/mL. Optimal 40-60.", ip(2), 30},
		{"vitamin_b12", "Vitamin B12", "vitamins", "pg/mL", fp(200), fp(900), fp(400), fp(800), fp(150), nil,
			"Essential for nerve function and red blood cells.",
			"Deficiency common on plant-based diets; supplement as needed.", ip(1), 31},
		{"tsh", "TSH", "thyroid", "mIU/L", fp(0.4), fp(4.5), fp(0.5), fp(2.5), fp(0.1), fp(10),
			"Thyroid-stimulating hormone, the primary thyroid screen.",
			"Levels above 2.5 with symptoms warrant a full thyroid panel.", nil, 40},
		{"ast", "AST", "liver", "U/L", fp(10), fp(40), fp(10), fp(26), nil, fp(200),
			"Aspartate aminotransferase, a liver enzyme.",
			"Also released by muscle; interpret with ALT.", nil, 50},
		{"alt", "ALT", "liver", "U/L", fp(7), fp(56), fp(7), fp(30), nil, fp(200),
			"Alanine aminotransferase, the more liver-specific enzyme.",
			"Optimal <30 men, <25 women per hepatology guidance.", nil, 51},
		{"platelets", "Platelets", "blood_count", "10⁹/L", fp(150), fp(400), fp(175), fp(350), fp(50), fp(600),
			"Clotting cells; used in liver fibrosis indices.",
			"Low platelets with elevated AST suggests advanced fibrosis.", nil, 60},
		{"creatinine", "Creatinine", "kidney", "mg/dL", fp(0.6), fp(1.3), fp(0.7), fp(1.1), nil, fp(4),
			"Muscle waste product cleared by the kidneys.",
			"Interpret with eGFR; higher muscle mass raises baseline.", nil, 70},
		{"ferritin", "Ferritin", "minerals", "ng/mL", fp(20), fp(250), fp(50), fp(150), fp(10), fp(1000),
			"Iron storage protein; also an acute-phase reactant.",
			"Low ferritin is the earliest iron deficiency marker.", ip(1), 80},
	}
	for _, d := range defs {
		_, err := db.Exec(`INSERT INTO biomarker_definitions
			(code, name, category, unit, standard_low, standard_high, optimal_low, optimal_high,
			 critical_low, critical_high, description, clinical_note, pillar_id, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.code, d.name, d.category, d.unit, d.stdLow, d.stdHigh, d.optLow, d.optHigh,
			d.critLow, d.critHigh, d.description, d.clinicalNote, d.pillarID, d.sortOrder)
		if err != nil {
			return fmt.Errorf("seeding biomarker %s: %w", d.code, err)
		}
	}
	return nil
}

func (db *DB) seedOrganScoreDefinitions() error {
	empty, err := db.tableEmpty("organ_score_definitions")
	if err != nil || !empty {
		return err
	}
	defs := []struct {
		code, name, organSystem, tier, formulaKey string
		requiredBiomarkers, requiredClinical      string
		interpretation, citationPMID, citation    string
		description                               string
		sortOrder                                 int
	}{
		{"fib4", "FIB-4 Index", "liver", "validated", "calc_fib4",
			`["ast","alt","platelets"]`, `["age"]`,
			`{"ranges":[{"max":1.3,"label":"Low risk of advanced fibrosis","severity":"optimal"},{"min":1.3,"max":2.67,"label":"Indeterminate","severity":"elevated"},{"min":2.67,"label":"High risk of advanced fibrosis","severity":"high"}]}`,
			"16729309", "Sterling RK et al. Hepatology 2006; EASL-EASD-EASO 2024 guidelines.",
			"Non-invasive liver fibrosis assessment using age, AST, ALT, and platelet count.", 1},
		{"apri", "APRI", "liver", "validated", "calc_apri",
			`["ast","platelets"]`, `[]`,
			`{"ranges":[{"max":0.5,"label":"Significant fibrosis unlikely","severity":"optimal"},{"min":0.5,"max":1.0,"label":"Indeterminate","severity":"elevated"},{"min":1.0,"max":2.0,"label":"Significant fibrosis likely","severity":"high"},{"min":2.0,"label":"Cirrhosis likely","severity":"critical"}]}`,
			"12883497", "Wai CT et al. Hepatology 2003; endorsed by WHO 2024 guidelines.",
			"AST-to-platelet ratio index for liver fibrosis screening.", 2},
		{"homa_ir", "HOMA-IR", "metabolic", "validated", "calc_homa_ir",
			`["fasting_glucose","fasting_insulin"]`, `[]`,
			`{"ranges":[{"max":1.5,"label":"Insulin sensitive","severity":"optimal"},{"min":1.5,"max":2.9,"label":"Early insulin resistance","severity":"elevated"},{"min":2.9,"label":"Significant insulin resistance","severity":"high"}]}`,
			"3899825", "Matthews DR et al. Diabetologia 1985.",
			"Homeostatic model of insulin resistance from fasting glucose and insulin.", 3},
		{"tg_hdl_ratio", "TG/HDL Ratio", "metabolic", "validated", "calc_tg_hdl",
			`["triglycerides","hdl_cholesterol"]`, `[]`,
			`{"ranges":[{"max":2.0,"label":"Low metabolic risk","severity":"optimal"},{"min":2.0,"max":3.5,"label":"Moderate risk","severity":"elevated"},{"min":3.5,"label":"High risk, likely insulin resistance","severity":"high"}]}`,
			"16157837", "McLaughlin T et al. Ann Intern Med 2005.",
			"Triglyceride to HDL ratio, a surrogate for insulin resistance and small dense LDL.", 4},
		{"egfr", "eGFR (CKD-EPI 2021)", "kidney", "validated", "calc_egfr",
			`["creatinine"]`, `["age","sex"]`,
			`{"ranges":[{"min":90,"label":"Normal kidney function","severity":"optimal"},{"min":60,"max":90,"label":"Mildly decreased","severity":"elevated"},{"min":30,"max":60,"label":"Moderately decreased","severity":"high"},{"max":30,"label":"Severely decreased","severity":"critical"}]}`,
			"34554658", "Inker LA et al. NEJM 2021 (race-free CKD-EPI equation).",
			"Estimated glomerular filtration rate from creatinine, age, and sex.", 5},
	}
	for _, d := range defs {
		_, err := db.Exec(`INSERT INTO organ_score_definitions
			(code, name, organ_system, tier, formula_key, required_biomarkers, required_clinical,
			 interpretation, citation_pmid, citation_text, description, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.code, d.name, d.organSystem, d.tier, d.formulaKey, d.requiredBiomarkers,
			d.requiredClinical, d.interpretation, d.citationPMID, d.citation, d.description, d.sortOrder)
		if err != nil {
			return fmt.Errorf("seeding organ score %s: %w", d.code, err)
		}
	}
	return nil
}

func (db *DB) seedProtocols() error {
	empty, err := db.tableEmpty("protocols")
	if err != nil || !empty {
		return err
	}
	protos := []struct {
		pillarID                              int
		name, description, timing, duration   string
		frequency                             string
		difficulty                            int
		mechanism, benefit, contraindications string
		sortOrder                             int
	}{
		{1, "Front-load fiber", "Start lunch and dinner with vegetables or a salad before the main course.",
			"before meals", "5 min", "daily", 1,
			"Fiber slows gastric emptying and blunts the post-meal glucose spike.",
			"Lower glucose variability, earlier satiety", "", 1},
		{1, "12-hour eating window", "Finish the last meal at least 3 hours before bed and keep all eating within 12 hours.",
			"evening", "", "daily", 2,
			"Aligns food intake with circadian insulin sensitivity.",
			"Improved fasting glucose and sleep quality", "Not for people with a history of disordered eating", 2},
		{2, "Post-meal walk", "Walk 10-15 minutes after the largest meal of the day.",
			"after meals", "10-15 min", "daily", 1,
			"Working muscle clears glucose independently of insulin.",
			"Reduces post-meal glucose peak by roughly 20-30%", "", 1},
		{2, "Exercise snacks", "Three 1-2 minute bouts of stair climbing or squats spread through the day.",
			"any", "1-2 min", "daily", 1,
			"Frequent short bouts interrupt sedentary muscle inactivity.",
			"Improved cardiorespiratory fitness without a gym", "", 2},
		{3, "Morning light", "Get 5-10 minutes of outdoor light within an hour of waking.",
			"morning", "5-10 min", "daily", 1,
			"Anchors the circadian clock and advances evening melatonin onset.",
			"Easier sleep onset, more stable mood", "", 1},
		{3, "Digital sunset", "Screens off 30-60 minutes before bed; dim household lights.",
			"evening", "30-60 min", "daily", 2,
			"Blue light suppresses melatonin and delays sleep onset.",
			"Shorter sleep latency, deeper early-night sleep", "", 2},
		{4, "Physiological sigh", "Two quick nasal inhales followed by a long mouth exhale, repeated 1-3 times.",
			"any", "1 min", "as needed", 1,
			"Lung reinflation offloads CO2 and rapidly downshifts sympathetic tone.",
			"Fast, in-the-moment stress reduction", "", 1},
		{4, "Nature minimum", "Spend at least 20 minutes in a park or green space.",
			"any", "20 min", "3x/week", 1,
			"Green exposure lowers cortisol and rumination.",
			"Lower stress hormones, improved attention", "", 2},
		{5, "Daily reach-out", "Send one message or make one call to someone you care about.",
			"any", "5 min", "daily", 1,
			"Small repeated contacts maintain relationship strength.",
			"Stronger social ties, reduced loneliness", "", 1},
		{6, "Urge surfing", "When a craving hits, observe it like a wave for 90 seconds without acting.",
			"as needed", "2 min", "as needed", 2,
			"Cravings peak and subside; delay breaks the stimulus-response loop.",
			"Fewer lapses during cessation", "", 1},
	}
	for _, p := range protos {
		_, err := db.Exec(`INSERT INTO protocols
			(pillar_id, name, description, timing, duration, frequency, difficulty,
			 mechanism, expected_benefit, contraindications, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.pillarID, p.name, p.description, p.timing, p.duration, p.frequency,
			p.difficulty, p.mechanism, p.benefit, p.contraindications, p.sortOrder)
		if err != nil {
			return fmt.Errorf("seeding protocol %q: %w", p.name, err)
		}
	}
	return nil
}

func (db *DB) seedMicroLessons() error {
	empty, err := db.tableEmpty("micro_lessons")
	if err != nil || !empty {
		return err
	}
	lessons := []struct {
		pillarID                 int
		title, content, question string
		options                  string
		answer                   int
		lessonType, difficulty   string
	}{
		{1, "The Power of Whole Foods",
			"Whole foods are minimally processed and close to their natural state: fruits, vegetables, whole grains, legumes, nuts, and seeds. A whole-food, plant-predominant pattern reduces inflammation, lowers risk of heart disease and type 2 diabetes, and feeds a healthy gut microbiome.",
			"Which of these is a whole food?",
			`["Steel-cut oats","Fruit-flavored yogurt","White bread","Veggie chips"]`, 0, "basic", "beginner"},
		{1, "Fiber: The Forgotten Nutrient",
			"Only about 5% of adults meet the 25-38 g daily fiber target. Fiber feeds gut bacteria that produce short-chain fatty acids, which lower inflammation and improve insulin sensitivity. Each 10 g/day increase is linked to roughly 10% lower all-cause mortality.",
			"What do gut bacteria produce when they ferment fiber?",
			`["Cholesterol","Short-chain fatty acids","Lactose","Uric acid"]`, 1, "basic", "beginner"},
		{2, "Why 150 Minutes?",
			"The 150 min/week moderate activity guideline marks where the dose-response curve for mortality reduction is steepest. Benefits begin well below it and keep accruing to around 300 min/week. Any movement counts, including housework and walking.",
			"Compared with doing nothing, the biggest health gain comes from moving from…",
			`["300 to 450 min/week","None to some activity","Moderate to vigorous only","Walking to running"]`, 1, "basic", "beginner"},
		{3, "Sleep Debt Is Real",
			"Sleeping less than 7 hours impairs glucose control within days. A single week at 5 hours per night can reduce insulin sensitivity by up to 25%. Recovery sleep helps but does not fully reverse the metabolic effects of chronic restriction.",
			"Short sleep primarily disrupts which system within days?",
			`["Bone density","Glucose regulation","Hair growth","Hearing"]`, 1, "basic", "beginner"},
		{4, "Stress Is a Dose Problem",
			"Acute stress sharpens focus; chronic unresolved stress keeps cortisol elevated, driving abdominal fat storage, blood pressure, and sleep disruption. Daily recovery practices such as breathwork, nature time, and meditation reset the stress baseline.",
			"The harmful form of stress is…",
			`["Any stress at all","Short bursts before a workout","Chronic unresolved stress","Cold exposure"]`, 2, "basic", "beginner"},
		{5, "Loneliness and Longevity",
			"Weak social connection carries mortality risk comparable to smoking 15 cigarettes a day in meta-analyses. Both the number of ties and their quality matter; even brief positive contacts measurably reduce stress reactivity.",
			"Meta-analyses compare the mortality risk of weak social ties to…",
			`["Sitting for 2 hours","Smoking 15 cigarettes a day","Skipping breakfast","Mild dehydration"]`, 1, "basic", "beginner"},
		{6, "No Safe Level",
			"The 2023 WHO statement concludes no level of alcohol consumption is safe for health; cancer risk starts at the first drink. Reduction still helps: risk falls progressively with intake, and tobacco cessation yields measurable cardiovascular recovery within weeks.",
			"According to the WHO, the amount of alcohol with zero health risk is…",
			`["One drink/day","Two drinks/week","None","Red wine only"]`, 2, "basic", "beginner"},
	}
	for _, l := range lessons {
		_, err := db.Exec(`INSERT INTO micro_lessons
			(pillar_id, title, content, quiz_question, quiz_options, quiz_answer, lesson_type, difficulty)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			l.pillarID, l.title, l.content, l.question, l.options, l.answer, l.lessonType, l.difficulty)
		if err != nil {
			return fmt.Errorf("seeding lesson %q: %w", l.title, err)
		}
	}
	return nil
}

func (db *DB) seedFoodDatabase() error {
	empty, err := db.tableEmpty("food_database")
	if err != nil || !empty {
		return err
	}
	foods := []struct {
		name, category    string
		servingSize       float64
		servingUnit       string
		calories, protein float64
		carbs, fat, fiber float64
		vitA, vitC, vitD  float64
		calcium, iron     float64
		potassium, sodium float64
		color             string
		plantBased        bool
	}{
		{"Oatmeal (cooked)", "grains", 234, "g", 166, 5.9, 28.1, 3.6, 4.0, 0, 0, 0, 21, 2.1, 164, 9, "green", true},
		{"Brown rice (cooked)", "grains", 195, "g", 218, 4.5, 45.8, 1.6, 3.5, 0, 0, 0, 20, 0.8, 154, 2, "green", true},
		{"Quinoa (cooked)", "grains", 185, "g", 222, 8.1, 39.4, 3.6, 5.2, 0, 0, 0, 31, 2.8, 318, 13, "green", true},
		{"Lentils (cooked)", "legumes", 198, "g", 230, 17.9, 39.9, 0.8, 15.6, 8, 3.0, 0, 38, 6.6, 731, 4, "green", true},
		{"Chickpeas (cooked)", "legumes", 164, "g", 269, 14.5, 45.0, 4.2, 12.5, 2, 2.1, 0, 80, 4.7, 477, 11, "green", true},
		{"Black beans (cooked)", "legumes", 172, "g", 227, 15.2, 40.8, 0.9, 15.0, 0, 0, 0, 46, 3.6, 611, 2, "green", true},
		{"Broccoli (steamed)", "vegetables", 156, "g", 55, 3.7, 11.2, 0.6, 5.1, 120, 101, 0, 62, 1.1, 457, 64, "green", true},
		{"Spinach (raw)", "vegetables", 30, "g", 7, 0.9, 1.1, 0.1, 0.7, 141, 8.4, 0, 30, 0.8, 167, 24, "green", true},
		{"Sweet potato (baked)", "vegetables", 114, "g", 103, 2.3, 23.6, 0.2, 3.8, 1096, 22.3, 0, 43, 0.8, 542, 41, "green", true},
		{"Apple", "fruits", 182, "g", 95, 0.5, 25.1, 0.3, 4.4, 5, 8.4, 0, 11, 0.2, 195, 2, "green", true},
		{"Banana", "fruits", 118, "g", 105, 1.3, 27.0, 0.4, 3.1, 4, 10.3, 0, 6, 0.3, 422, 1, "green", true},
		{"Blueberries", "fruits", 148, "g", 84, 1.1, 21.4, 0.5, 3.6, 4, 14.4, 0, 9, 0.4, 114, 1, "green", true},
		{"Almonds", "nuts_seeds", 28, "g", 164, 6.0, 6.1, 14.2, 3.5, 0, 0, 0, 76, 1.0, 208, 0, "green", true},
		{"Walnuts", "nuts_seeds", 28, "g", 185, 4.3, 3.9, 18.5, 1.9, 1, 0.4, 0, 28, 0.8, 125, 1, "green", true},
		{"Olive oil", "fats", 14, "g", 119, 0, 0, 13.5, 0, 0, 0, 0, 0, 0.1, 0, 0, "yellow", true},
		{"Salmon (baked)", "protein", 85, "g", 175, 18.8, 0, 10.5, 0, 13, 0, 11.1, 13, 0.3, 326, 52, "yellow", false},
		{"Chicken breast (grilled)", "protein", 85, "g", 128, 26.0, 0, 2.7, 0, 6, 0, 0.1, 13, 0.9, 220, 44, "yellow", false},
		{"Eggs", "protein", 50, "g", 72, 6.3, 0.4, 4.8, 0, 80, 0, 1.0, 28, 0.9, 69, 71, "yellow", false},
		{"Greek yogurt (plain)", "dairy", 170, "g", 100, 17.3, 6.1, 0.7, 0, 1, 0, 0, 187, 0.1, 240, 61, "yellow", false},
		{"Tofu (firm)", "protein", 126, "g", 181, 21.8, 3.5, 11.0, 2.9, 0, 0.3, 0, 861, 3.4, 299, 18, "green", true},
		{"White bread", "grains", 25, "g", 67, 1.9, 12.7, 0.8, 0.6, 0, 0, 0, 38, 0.9, 25, 122, "red", true},
		{"Potato chips", "snacks", 28, "g", 152, 1.8, 15.0, 9.8, 1.3, 0, 5.2, 0, 7, 0.5, 361, 149, "red", true},
		{"Soda (cola)", "beverages", 355, "ml", 140, 0, 39.0, 0, 0, 0, 0, 0, 7, 0.1, 7, 45, "red", true},
	}
	for _, f := range foods {
		_, err := db.Exec(`INSERT INTO food_database
			(name, category, serving_size, serving_unit, calories, protein_g, carbs_g, fat_g, fiber_g,
			 vitamin_a_mcg, vitamin_c_mg, vitamin_d_mcg, calcium_mg, iron_mg, potassium_mg, sodium_mg,
			 color_category, is_plant_based)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.name, f.category, f.servingSize, f.servingUnit, f.calories, f.protein, f.carbs, f.fat, f.fiber,
			f.vitA, f.vitC, f.vitD, f.calcium, f.iron, f.potassium, f.sodium,
			f.color, boolToInt(f.plantBased))
		if err != nil {
			return fmt.Errorf("seeding food %q: %w", f.name, err)
		}
	}
	return nil
}

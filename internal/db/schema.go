package db

const schema = `
-- ── Identity ────────────────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    display_name  TEXT,
    email         TEXT,
    created_at    DATETIME DEFAULT (datetime('now')),
    updated_at    DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS user_settings (
    user_id        INTEGER PRIMARY KEY REFERENCES users(id),
    goal_weight_kg REAL,
    updated_at     DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS user_clinical_profile (
    user_id                  INTEGER PRIMARY KEY REFERENCES users(id),
    date_of_birth            TEXT,
    sex                      TEXT CHECK(sex IN ('male','female')),
    height_cm                REAL,
    weight_kg                REAL,
    smoking_status           TEXT CHECK(smoking_status IN ('never','former','light','moderate','heavy')),
    diabetes_status          INTEGER DEFAULT 0,
    systolic_bp              REAL,
    diastolic_bp             REAL,
    on_bp_medication         INTEGER DEFAULT 0,
    on_statin                INTEGER DEFAULT 0,
    ethnicity                TEXT DEFAULT 'white',
    diabetes_type            TEXT DEFAULT 'none' CHECK(diabetes_type IN ('none','type1','type2')),
    family_history_chd       INTEGER DEFAULT 0,
    atrial_fibrillation      INTEGER DEFAULT 0,
    rheumatoid_arthritis     INTEGER DEFAULT 0,
    chronic_kidney_disease   INTEGER DEFAULT 0,
    migraine                 INTEGER DEFAULT 0,
    sle                      INTEGER DEFAULT 0,
    severe_mental_illness    INTEGER DEFAULT 0,
    erectile_dysfunction     INTEGER DEFAULT 0,
    atypical_antipsychotic   INTEGER DEFAULT 0,
    corticosteroid_use       INTEGER DEFAULT 0,
    sbp_variability          REAL,
    cigarettes_per_day       INTEGER DEFAULT 0,
    congestive_heart_failure INTEGER DEFAULT 0,
    prior_stroke_tia         INTEGER DEFAULT 0,
    vascular_disease         INTEGER DEFAULT 0,
    education_years          INTEGER,
    physical_activity_level  TEXT DEFAULT 'active',
    updated_at               DATETIME DEFAULT (datetime('now'))
);

-- ── Pillars (fixed reference set, seeded) ───────────────────────────────────

CREATE TABLE IF NOT EXISTS pillars (
    id           INTEGER PRIMARY KEY,
    name         TEXT UNIQUE NOT NULL,
    display_name TEXT NOT NULL,
    description  TEXT,
    icon         TEXT,
    color        TEXT,
    quick_tip    TEXT,
    sort_order   INTEGER DEFAULT 0
);

-- ── Assessments ─────────────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS wheel_assessments (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL REFERENCES users(id),
    pillar_id   INTEGER NOT NULL REFERENCES pillars(id),
    score       INTEGER NOT NULL CHECK(score BETWEEN 1 AND 10),
    notes       TEXT,
    session_id  TEXT NOT NULL,
    assessed_at DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_wheel_user ON wheel_assessments(user_id, assessed_at DESC);
CREATE INDEX IF NOT EXISTS idx_wheel_session ON wheel_assessments(session_id);

CREATE TABLE IF NOT EXISTS stage_of_change (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL REFERENCES users(id),
    pillar_id   INTEGER NOT NULL REFERENCES pillars(id),
    stage       TEXT NOT NULL CHECK(stage IN ('precontemplation','contemplation','preparation','action','maintenance')),
    assessed_at DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_stage_user ON stage_of_change(user_id, pillar_id);

CREATE TABLE IF NOT EXISTS comb_assessments (
    id                       INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id                  INTEGER NOT NULL REFERENCES users(id),
    pillar_id                INTEGER NOT NULL REFERENCES pillars(id),
    capability_physical      INTEGER CHECK(capability_physical BETWEEN 1 AND 10),
    capability_psychological INTEGER CHECK(capability_psychological BETWEEN 1 AND 10),
    opportunity_physical     INTEGER CHECK(opportunity_physical BETWEEN 1 AND 10),
    opportunity_social       INTEGER CHECK(opportunity_social BETWEEN 1 AND 10),
    motivation_reflective    INTEGER CHECK(motivation_reflective BETWEEN 1 AND 10),
    motivation_automatic     INTEGER CHECK(motivation_automatic BETWEEN 1 AND 10),
    primary_barrier          TEXT,
    assessed_at              DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS diet_assessments (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          INTEGER NOT NULL REFERENCES users(id),
    assessment_date  TEXT NOT NULL,
    diet_type        TEXT,
    hei_score        REAL CHECK(hei_score BETWEEN 0 AND 100),
    component_scores TEXT,
    answers          TEXT,
    created_at       DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS chronotype_assessments (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id        INTEGER NOT NULL REFERENCES users(id),
    meq_score      INTEGER CHECK(meq_score BETWEEN 16 AND 86),
    chronotype     TEXT CHECK(chronotype IN ('lion','bear','wolf','dolphin')),
    ideal_bedtime  TEXT,
    ideal_waketime TEXT,
    assessed_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(user_id)
);

-- ── Goals & habits ──────────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS goals (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id        INTEGER NOT NULL REFERENCES users(id),
    pillar_id      INTEGER NOT NULL REFERENCES pillars(id),
    title          TEXT NOT NULL,
    specific       TEXT,
    measurable     TEXT,
    achievable     TEXT,
    relevant       TEXT,
    time_bound     TEXT,
    evidence_base  TEXT,
    strategic      TEXT,
    tailored       TEXT,
    status         TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','completed','abandoned','paused')),
    progress_pct   INTEGER NOT NULL DEFAULT 0 CHECK(progress_pct BETWEEN 0 AND 100),
    target_value   REAL,
    current_value  REAL,
    unit           TEXT,
    start_date     TEXT,
    target_date    TEXT,
    completed_at   DATETIME,
    abandoned_at   DATETIME,
    abandon_reason TEXT,
    created_at     DATETIME DEFAULT (datetime('now')),
    updated_at     DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id, status);

CREATE TABLE IF NOT EXISTS goal_progress (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    goal_id       INTEGER NOT NULL REFERENCES goals(id),
    user_id       INTEGER NOT NULL REFERENCES users(id),
    progress_pct  INTEGER CHECK(progress_pct BETWEEN 0 AND 100),
    current_value REAL,
    notes         TEXT,
    logged_at     DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_goal_progress_goal ON goal_progress(goal_id);

CREATE TABLE IF NOT EXISTS habits (
    id                       INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id                  INTEGER NOT NULL REFERENCES users(id),
    pillar_id                INTEGER NOT NULL REFERENCES pillars(id),
    name                     TEXT NOT NULL,
    description              TEXT,
    frequency                TEXT DEFAULT 'daily',
    custom_days              TEXT,
    target_per_day           INTEGER DEFAULT 1,
    cue_behavior             TEXT,
    location                 TEXT,
    implementation_intention TEXT,
    is_active                INTEGER NOT NULL DEFAULT 1 CHECK(is_active IN (0, 1)),
    sort_order               INTEGER DEFAULT 0,
    created_at               DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id, is_active);

CREATE TABLE IF NOT EXISTS habit_log (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    habit_id        INTEGER NOT NULL REFERENCES habits(id),
    user_id         INTEGER NOT NULL REFERENCES users(id),
    log_date        TEXT NOT NULL,
    completed_count INTEGER NOT NULL DEFAULT 0,
    UNIQUE(habit_id, log_date)
);
CREATE INDEX IF NOT EXISTS idx_habit_log_user ON habit_log(user_id, log_date);

-- ── Check-ins & reviews ─────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS daily_checkins (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id           INTEGER NOT NULL REFERENCES users(id),
    checkin_date      TEXT NOT NULL,
    mood              INTEGER CHECK(mood BETWEEN 1 AND 10),
    energy            INTEGER CHECK(energy BETWEEN 1 AND 10),
    nutrition_rating  INTEGER CHECK(nutrition_rating BETWEEN 1 AND 5),
    activity_rating   INTEGER CHECK(activity_rating BETWEEN 1 AND 5),
    sleep_rating      INTEGER CHECK(sleep_rating BETWEEN 1 AND 5),
    stress_rating     INTEGER CHECK(stress_rating BETWEEN 1 AND 5),
    connection_rating INTEGER CHECK(connection_rating BETWEEN 1 AND 5),
    substance_rating  INTEGER CHECK(substance_rating BETWEEN 1 AND 5),
    journal_entry     TEXT,
    gratitude         TEXT,
    win_of_day        TEXT,
    challenge         TEXT,
    created_at        DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, checkin_date)
);

CREATE TABLE IF NOT EXISTS weekly_reviews (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id               INTEGER NOT NULL REFERENCES users(id),
    week_start            TEXT NOT NULL,
    avg_mood              REAL,
    avg_energy            REAL,
    habit_completion_pct  REAL,
    reflection            TEXT,
    highlights            TEXT,
    challenges            TEXT,
    next_week_focus       TEXT,
    ai_summary            TEXT,
    ai_insights           TEXT,
    ai_suggestions        TEXT,
    created_at            DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, week_start)
);

CREATE TABLE IF NOT EXISTS auto_weekly_reports (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL REFERENCES users(id),
    week_start  TEXT NOT NULL,
    report_text TEXT,
    stats_json  TEXT,
    created_at  DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, week_start)
);

CREATE TABLE IF NOT EXISTS daily_insights (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    insight_date TEXT NOT NULL,
    insight_text TEXT,
    created_at   DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, insight_date)
);

-- ── Coaching transcript ─────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS coaching_messages (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    role         TEXT NOT NULL CHECK(role IN ('user','assistant')),
    content      TEXT NOT NULL,
    context_type TEXT DEFAULT 'general',
    created_at   DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_coaching_user ON coaching_messages(user_id, created_at);

-- ── Gamification & engagement ───────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS coin_transactions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    amount     INTEGER NOT NULL,
    reason     TEXT NOT NULL,
    ref_date   TEXT,
    created_at DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, reason, ref_date)
);

CREATE TABLE IF NOT EXISTS weekly_challenges (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    week_start    TEXT NOT NULL,
    pillar_id     INTEGER NOT NULL REFERENCES pillars(id),
    title         TEXT NOT NULL,
    description   TEXT NOT NULL,
    target_count  INTEGER NOT NULL DEFAULT 5,
    current_count INTEGER NOT NULL DEFAULT 0,
    difficulty    TEXT NOT NULL DEFAULT 'medium' CHECK(difficulty IN ('easy','medium','hard')),
    coin_reward   INTEGER NOT NULL DEFAULT 10,
    status        TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','completed','expired')),
    completed_at  TEXT,
    created_at    TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(user_id, week_start, title)
);

CREATE TABLE IF NOT EXISTS user_journey (
    user_id          INTEGER PRIMARY KEY REFERENCES users(id),
    max_habits       INTEGER NOT NULL DEFAULT 3,
    consistency_days INTEGER NOT NULL DEFAULT 0,
    level            INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS quote_interactions (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    quote_index     INTEGER NOT NULL,
    shown_date      TEXT NOT NULL,
    reflection_text TEXT,
    is_favorite     INTEGER NOT NULL DEFAULT 0 CHECK(is_favorite IN (0, 1)),
    UNIQUE(user_id, quote_index, shown_date)
);

CREATE TABLE IF NOT EXISTS nudge_shown (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    nudge_index  INTEGER NOT NULL,
    shown_date   TEXT NOT NULL,
    acknowledged INTEGER NOT NULL DEFAULT 0 CHECK(acknowledged IN (0, 1)),
    UNIQUE(user_id, nudge_index, shown_date)
);

CREATE TABLE IF NOT EXISTS daily_growth_state (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id             INTEGER NOT NULL REFERENCES users(id),
    state_date          TEXT NOT NULL,
    current_quote_index INTEGER,
    current_nudge_index INTEGER,
    meditation_streak   INTEGER NOT NULL DEFAULT 0,
    UNIQUE(user_id, state_date)
);

CREATE TABLE IF NOT EXISTS meditation_sessions (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          INTEGER NOT NULL REFERENCES users(id),
    session_date     TEXT NOT NULL,
    duration_minutes INTEGER,
    meditation_type  TEXT,
    mood_before      INTEGER CHECK(mood_before BETWEEN 1 AND 10),
    mood_after       INTEGER CHECK(mood_after BETWEEN 1 AND 10),
    notes            TEXT,
    created_at       DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS future_self_letters (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    letter_text   TEXT NOT NULL,
    delivery_date TEXT NOT NULL,
    delivered     INTEGER NOT NULL DEFAULT 0 CHECK(delivered IN (0, 1)),
    created_at    DATETIME DEFAULT (datetime('now'))
);

-- ── Evidence library ────────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS research_evidence (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    pmid           TEXT,
    doi            TEXT,
    title          TEXT NOT NULL,
    authors        TEXT,
    journal        TEXT,
    year           INTEGER,
    study_type     TEXT,
    evidence_grade TEXT CHECK(evidence_grade IN ('A','B','C','D')),
    pillar_id      INTEGER REFERENCES pillars(id),
    summary        TEXT,
    key_finding    TEXT,
    effect_size    TEXT,
    sample_size    INTEGER,
    population     TEXT,
    dose_response  TEXT,
    causation_note TEXT,
    tags           TEXT,
    url            TEXT,
    journal_tier   TEXT,
    domain         TEXT,
    created_at     DATETIME DEFAULT (datetime('now'))
);

-- Polymorphic: entity_type tags which table entity_id points into, so no FK.
CREATE TABLE IF NOT EXISTS evidence_links (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    evidence_id    INTEGER NOT NULL REFERENCES research_evidence(id),
    entity_type    TEXT NOT NULL,
    entity_id      INTEGER NOT NULL,
    relevance_note TEXT,
    UNIQUE(evidence_id, entity_type, entity_id)
);
CREATE INDEX IF NOT EXISTS idx_evidence_links_entity ON evidence_links(entity_type, entity_id);

-- ── Lessons & protocols ─────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS micro_lessons (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    pillar_id     INTEGER NOT NULL REFERENCES pillars(id),
    title         TEXT NOT NULL,
    content       TEXT NOT NULL,
    quiz_question TEXT,
    quiz_options  TEXT,
    quiz_answer   INTEGER,
    lesson_type   TEXT DEFAULT 'basic',
    difficulty    TEXT DEFAULT 'beginner',
    UNIQUE(pillar_id, title)
);

CREATE TABLE IF NOT EXISTS user_lesson_progress (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    lesson_id    INTEGER NOT NULL REFERENCES micro_lessons(id),
    quiz_score   INTEGER,
    completed_at DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, lesson_id)
);

CREATE TABLE IF NOT EXISTS protocols (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    pillar_id         INTEGER NOT NULL REFERENCES pillars(id),
    name              TEXT NOT NULL UNIQUE,
    description       TEXT,
    timing            TEXT,
    duration          TEXT,
    frequency         TEXT DEFAULT 'daily',
    difficulty        INTEGER DEFAULT 1,
    mechanism         TEXT,
    expected_benefit  TEXT,
    contraindications TEXT,
    is_active         INTEGER NOT NULL DEFAULT 1 CHECK(is_active IN (0, 1)),
    sort_order        INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS user_protocols (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL REFERENCES users(id),
    protocol_id INTEGER NOT NULL REFERENCES protocols(id),
    status      TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','paused','abandoned')),
    started_at  DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, protocol_id)
);

CREATE TABLE IF NOT EXISTS protocol_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL REFERENCES users(id),
    protocol_id INTEGER NOT NULL REFERENCES protocols(id),
    log_date    TEXT NOT NULL,
    completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
    notes       TEXT,
    UNIQUE(user_id, protocol_id, log_date)
);

-- ── Biomarkers & organ scores ───────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS biomarker_definitions (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    code          TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    category      TEXT,
    unit          TEXT,
    standard_low  REAL,
    standard_high REAL,
    optimal_low   REAL,
    optimal_high  REAL,
    critical_low  REAL,
    critical_high REAL,
    description   TEXT,
    clinical_note TEXT,
    pillar_id     INTEGER REFERENCES pillars(id),
    sort_order    INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS biomarker_results (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    biomarker_id INTEGER NOT NULL REFERENCES biomarker_definitions(id),
    value        REAL NOT NULL,
    lab_date     TEXT NOT NULL,
    lab_name     TEXT,
    notes        TEXT,
    created_at   DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, biomarker_id, lab_date)
);
CREATE INDEX IF NOT EXISTS idx_biomarker_results_user ON biomarker_results(user_id, lab_date DESC);

CREATE TABLE IF NOT EXISTS organ_score_definitions (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    code                TEXT NOT NULL UNIQUE,
    name                TEXT NOT NULL,
    organ_system        TEXT NOT NULL,
    tier                TEXT DEFAULT 'validated' CHECK(tier IN ('validated','derived')),
    formula_key         TEXT NOT NULL,
    required_biomarkers TEXT NOT NULL,
    required_clinical   TEXT,
    interpretation      TEXT,
    citation_pmid       TEXT,
    citation_text       TEXT,
    description         TEXT,
    sort_order          INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS organ_score_results (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id        INTEGER NOT NULL REFERENCES users(id),
    score_def_id   INTEGER NOT NULL REFERENCES organ_score_definitions(id),
    value          REAL,
    label          TEXT,
    severity       TEXT,
    input_snapshot TEXT,
    lab_date       TEXT NOT NULL,
    computed_at    DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, score_def_id, lab_date)
);

-- ── Sleep & fasting ─────────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS sleep_logs (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id           INTEGER NOT NULL REFERENCES users(id),
    sleep_date        TEXT NOT NULL,
    bedtime           TEXT,
    wake_time         TEXT,
    sleep_latency_min INTEGER DEFAULT 0,
    awakenings        INTEGER DEFAULT 0,
    wake_duration_min INTEGER DEFAULT 0,
    sleep_quality     INTEGER CHECK(sleep_quality BETWEEN 1 AND 5),
    naps_min          INTEGER DEFAULT 0,
    caffeine_cutoff   TEXT,
    screen_cutoff     TEXT,
    alcohol           INTEGER DEFAULT 0,
    exercise_today    INTEGER DEFAULT 0,
    notes             TEXT,
    total_sleep_min   INTEGER,
    sleep_efficiency  REAL CHECK(sleep_efficiency BETWEEN 0 AND 100),
    sleep_score       INTEGER CHECK(sleep_score BETWEEN 0 AND 100),
    created_at        DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, sleep_date)
);

CREATE TABLE IF NOT EXISTS fasting_sessions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    start_time   TEXT NOT NULL,
    end_time     TEXT,
    target_hours REAL,
    actual_hours REAL,
    fasting_type TEXT,
    notes        TEXT,
    completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1))
);
CREATE INDEX IF NOT EXISTS idx_fasting_user ON fasting_sessions(user_id, start_time DESC);

-- ── Nutrition & calories ────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS meal_logs (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id              INTEGER NOT NULL REFERENCES users(id),
    log_date             TEXT NOT NULL,
    meal_type            TEXT CHECK(meal_type IN ('breakfast','lunch','dinner','snack')),
    description          TEXT,
    color_category       TEXT CHECK(color_category IN ('green','yellow','red')),
    plant_servings       REAL DEFAULT 0,
    fruit_servings       REAL DEFAULT 0,
    vegetable_servings   REAL DEFAULT 0,
    whole_grain_servings REAL DEFAULT 0,
    legume_servings      REAL DEFAULT 0,
    nut_seed_servings    REAL DEFAULT 0,
    fiber_grams          REAL DEFAULT 0,
    water_glasses        INTEGER DEFAULT 0,
    notes                TEXT,
    created_at           DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_meal_logs_user ON meal_logs(user_id, log_date);

CREATE TABLE IF NOT EXISTS nutrition_daily_summary (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id              INTEGER NOT NULL REFERENCES users(id),
    summary_date         TEXT NOT NULL,
    total_meals          INTEGER DEFAULT 0,
    green_count          INTEGER DEFAULT 0,
    yellow_count         INTEGER DEFAULT 0,
    red_count            INTEGER DEFAULT 0,
    total_plant_servings REAL DEFAULT 0,
    total_fiber_grams    REAL DEFAULT 0,
    total_water_glasses  INTEGER DEFAULT 0,
    plant_score          INTEGER CHECK(plant_score BETWEEN 0 AND 100),
    nutrition_score      INTEGER CHECK(nutrition_score BETWEEN 0 AND 100),
    UNIQUE(user_id, summary_date)
);

CREATE TABLE IF NOT EXISTS food_database (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    name           TEXT NOT NULL UNIQUE,
    category       TEXT,
    serving_size   REAL,
    serving_unit   TEXT,
    calories       REAL,
    protein_g      REAL,
    carbs_g        REAL,
    fat_g          REAL,
    fiber_g        REAL,
    vitamin_a_mcg  REAL,
    vitamin_c_mg   REAL,
    vitamin_d_mcg  REAL,
    calcium_mg     REAL,
    iron_mg        REAL,
    potassium_mg   REAL,
    sodium_mg      REAL,
    color_category TEXT CHECK(color_category IN ('green','yellow','red')),
    is_plant_based INTEGER DEFAULT 0 CHECK(is_plant_based IN (0, 1))
);

CREATE TABLE IF NOT EXISTS food_log_items (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    food_id    INTEGER NOT NULL REFERENCES food_database(id),
    log_date   TEXT NOT NULL,
    meal_type  TEXT CHECK(meal_type IN ('breakfast','lunch','dinner','snack')),
    servings   REAL NOT NULL DEFAULT 1,
    calories   REAL,
    protein_g  REAL,
    carbs_g    REAL,
    fat_g      REAL,
    fiber_g    REAL,
    created_at DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_food_log_items_user ON food_log_items(user_id, log_date);

CREATE TABLE IF NOT EXISTS calorie_daily_summary (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    summary_date    TEXT NOT NULL,
    total_calories  REAL DEFAULT 0,
    total_protein_g REAL DEFAULT 0,
    total_carbs_g   REAL DEFAULT 0,
    total_fat_g     REAL DEFAULT 0,
    total_fiber_g   REAL DEFAULT 0,
    total_items     INTEGER DEFAULT 0,
    UNIQUE(user_id, summary_date)
);

CREATE TABLE IF NOT EXISTS calorie_targets (
    user_id          INTEGER PRIMARY KEY REFERENCES users(id),
    calorie_target   REAL,
    protein_target_g REAL,
    carbs_target_g   REAL,
    fat_target_g     REAL,
    updated_at       DATETIME DEFAULT (datetime('now'))
);

-- ── Exercise ────────────────────────────────────────────────────────────────

-- external_id is NULL for manual entries; SQLite treats NULLs as distinct in
-- the UNIQUE key, so only integration imports are deduplicated.
CREATE TABLE IF NOT EXISTS exercise_logs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    exercise_date TEXT NOT NULL,
    exercise_type TEXT,
    category      TEXT CHECK(category IN ('cardio','strength','flexibility','sport','other')),
    duration_min  INTEGER NOT NULL DEFAULT 0,
    intensity     TEXT CHECK(intensity IN ('light','moderate','vigorous')),
    distance_km   REAL,
    calories      REAL,
    avg_hr        INTEGER,
    max_hr        INTEGER,
    rpe           INTEGER CHECK(rpe BETWEEN 1 AND 10),
    notes         TEXT,
    source        TEXT DEFAULT 'manual',
    external_id   TEXT,
    created_at    DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, exercise_date, external_id)
);
CREATE INDEX IF NOT EXISTS idx_exercise_logs_user ON exercise_logs(user_id, exercise_date DESC);

CREATE TABLE IF NOT EXISTS exercise_weekly_summary (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    week_start      TEXT NOT NULL,
    total_min       INTEGER DEFAULT 0,
    cardio_min      INTEGER DEFAULT 0,
    strength_min    INTEGER DEFAULT 0,
    flexibility_min INTEGER DEFAULT 0,
    moderate_min    INTEGER DEFAULT 0,
    vigorous_min    INTEGER DEFAULT 0,
    session_count   INTEGER DEFAULT 0,
    exercise_score  INTEGER CHECK(exercise_score BETWEEN 0 AND 100),
    UNIQUE(user_id, week_start)
);

CREATE TABLE IF NOT EXISTS exercise_programs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    level        TEXT,
    schedule     TEXT,
    goal         TEXT,
    program_json TEXT,
    created_at   DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS workout_sets (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    workout_date    TEXT NOT NULL,
    week_number     INTEGER,
    day_number      INTEGER,
    split_type      TEXT,
    exercise_id     TEXT,
    exercise_name   TEXT NOT NULL,
    set_number      INTEGER NOT NULL DEFAULT 1,
    prescribed_reps TEXT,
    actual_reps     INTEGER,
    weight_kg       REAL,
    rpe             INTEGER CHECK(rpe BETWEEN 1 AND 10),
    notes           TEXT,
    created_at      DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_workout_sets_user ON workout_sets(user_id, workout_date);

-- ── Cycling ─────────────────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS cycling_profile (
    user_id         INTEGER PRIMARY KEY REFERENCES users(id),
    ftp_watts       INTEGER,
    weight_kg       REAL,
    athlete_type    TEXT,
    goal_event      TEXT,
    goal_date       TEXT,
    ftp_tested_date TEXT,
    updated_at      DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS cycling_ride_logs (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          INTEGER NOT NULL REFERENCES users(id),
    ride_date        TEXT NOT NULL,
    duration_min     INTEGER NOT NULL DEFAULT 0,
    avg_power        INTEGER,
    normalized_power INTEGER,
    if_score         REAL,
    tss              REAL,
    elevation_m      INTEGER,
    difficulty_survey INTEGER CHECK(difficulty_survey BETWEEN 1 AND 10),
    workout_id       TEXT,
    notes            TEXT,
    source           TEXT DEFAULT 'manual',
    created_at       DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS cycling_progression_levels (
    user_id    INTEGER PRIMARY KEY REFERENCES users(id),
    endurance  REAL NOT NULL DEFAULT 1.0 CHECK(endurance BETWEEN 1 AND 10),
    tempo      REAL NOT NULL DEFAULT 1.0 CHECK(tempo BETWEEN 1 AND 10),
    sweet_spot REAL NOT NULL DEFAULT 1.0 CHECK(sweet_spot BETWEEN 1 AND 10),
    threshold  REAL NOT NULL DEFAULT 1.0 CHECK(threshold BETWEEN 1 AND 10),
    vo2max     REAL NOT NULL DEFAULT 1.0 CHECK(vo2max BETWEEN 1 AND 10),
    anaerobic  REAL NOT NULL DEFAULT 1.0 CHECK(anaerobic BETWEEN 1 AND 10),
    updated_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS cycling_plan (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    phase        TEXT,
    start_date   TEXT,
    weeks        INTEGER,
    days_per_week INTEGER,
    tss_per_week REAL,
    program_json TEXT,
    active       INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
    created_at   DATETIME DEFAULT (datetime('now'))
);

-- ── SIBO / FODMAP tracker ───────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS sibo_symptom_logs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id        INTEGER NOT NULL REFERENCES users(id),
    log_date       TEXT NOT NULL,
    bloating       INTEGER CHECK(bloating BETWEEN 0 AND 10),
    abdominal_pain INTEGER CHECK(abdominal_pain BETWEEN 0 AND 10),
    gas            INTEGER CHECK(gas BETWEEN 0 AND 10),
    diarrhea       INTEGER CHECK(diarrhea BETWEEN 0 AND 10),
    constipation   INTEGER CHECK(constipation BETWEEN 0 AND 10),
    nausea         INTEGER CHECK(nausea BETWEEN 0 AND 10),
    fatigue        INTEGER CHECK(fatigue BETWEEN 0 AND 10),
    overall_score  INTEGER CHECK(overall_score BETWEEN 0 AND 10),
    notes          TEXT,
    created_at     DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, log_date)
);

CREATE TABLE IF NOT EXISTS sibo_food_logs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    log_date      TEXT NOT NULL,
    meal_type     TEXT CHECK(meal_type IN ('breakfast','lunch','dinner','snack')),
    food_name     TEXT NOT NULL,
    food_category TEXT,
    serving_size  REAL,
    serving_unit  TEXT,
    fodmap_rating TEXT CHECK(fodmap_rating IN ('low','moderate','high')),
    fodmap_groups TEXT,
    notes         TEXT,
    created_at    DATETIME DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_sibo_food_user ON sibo_food_logs(user_id, log_date);

-- Append-only phase history; the active phase has ended_date IS NULL.
CREATE TABLE IF NOT EXISTS sibo_fodmap_phase (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    phase        TEXT NOT NULL CHECK(phase IN ('elimination','reintroduction','personalization')),
    started_date TEXT NOT NULL,
    ended_date   TEXT,
    reintro_group TEXT,
    notes        TEXT,
    created_at   DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sibo_reintro_challenges (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id        INTEGER NOT NULL REFERENCES users(id),
    fodmap_group   TEXT NOT NULL,
    challenge_food TEXT NOT NULL,
    start_date     TEXT NOT NULL,
    day1_symptoms  TEXT,
    day2_symptoms  TEXT,
    day3_symptoms  TEXT,
    end_date       TEXT,
    tolerance      TEXT CHECK(tolerance IN ('tolerated','partial','not_tolerated')),
    washout_end    TEXT,
    created_at     DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sibo_user_state (
    user_id            INTEGER PRIMARY KEY REFERENCES users(id),
    current_phase      TEXT,
    phase_start        TEXT,
    active_diet        TEXT,
    total_symptom_logs INTEGER NOT NULL DEFAULT 0,
    total_food_logs    INTEGER NOT NULL DEFAULT 0,
    updated_at         DATETIME DEFAULT (datetime('now'))
);

-- ── Body metrics ────────────────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS body_metrics (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    log_date     TEXT NOT NULL,
    weight_kg    REAL,
    height_cm    REAL,
    waist_cm     REAL,
    hip_cm       REAL,
    body_fat_pct REAL,
    notes        TEXT,
    photo_note   TEXT,
    created_at   TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(user_id, log_date)
);

CREATE TABLE IF NOT EXISTS dexa_scans (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id           INTEGER NOT NULL REFERENCES users(id),
    scan_date         TEXT NOT NULL,
    lab_name          TEXT,
    scanner_model     TEXT,
    weight_kg         REAL,
    total_fat_pct     REAL,
    total_fat_g       REAL,
    lean_mass_g       REAL,
    bone_mass_g       REAL,
    bmi               REAL,
    bmd_g_cm2         REAL,
    t_score           REAL,
    z_score           REAL,
    vat_mass_g        REAL,
    vat_volume_cm3    REAL,
    vat_area_cm2      REAL,
    android_fat_pct   REAL,
    gynoid_fat_pct    REAL,
    ag_ratio          REAL,
    left_arm_fat_pct  REAL,
    right_arm_fat_pct REAL,
    trunk_fat_pct     REAL,
    left_leg_fat_pct  REAL,
    right_leg_fat_pct REAL,
    left_arm_lean_g   REAL,
    right_arm_lean_g  REAL,
    trunk_lean_g      REAL,
    left_leg_lean_g   REAL,
    right_leg_lean_g  REAL,
    alm_kg            REAL,
    alm_h2            REAL,
    ffmi              REAL,
    notes             TEXT,
    source            TEXT DEFAULT 'manual',
    created_at        DATETIME DEFAULT (datetime('now')),
    UNIQUE(user_id, scan_date)
);

-- ── Third-party integrations ────────────────────────────────────────────────

CREATE TABLE IF NOT EXISTS garmin_connections (
    user_id      INTEGER PRIMARY KEY REFERENCES users(id),
    garmin_email TEXT,
    garmin_token TEXT,
    last_sync    DATETIME,
    connected_at DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS strava_connections (
    user_id          INTEGER PRIMARY KEY REFERENCES users(id),
    strava_athlete_id TEXT,
    access_token     TEXT,
    refresh_token    TEXT,
    token_expires_at INTEGER,
    last_sync        DATETIME,
    connected_at     DATETIME DEFAULT (datetime('now'))
);
`
